package repository

import (
	"errors"
	"strings"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// DiscountCodeRepository is the discount code data access interface.
type DiscountCodeRepository interface {
	List(filter DiscountCodeListFilter) ([]models.DiscountCode, int64, error)
	GetByID(id uint) (*models.DiscountCode, error)
	GetByCode(code string) (*models.DiscountCode, error)
	Create(code *models.DiscountCode) error
	Update(code *models.DiscountCode) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	ClaimUse(id uint) (int64, error)
	WithTx(tx *gorm.DB) DiscountCodeRepository
}

// GormDiscountCodeRepository is the GORM implementation.
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewDiscountCodeRepository creates a discount code repository.
func NewDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDiscountCodeRepository) WithTx(tx *gorm.DB) DiscountCodeRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountCodeRepository{db: tx}
}

// List returns a filtered code page.
func (r *GormDiscountCodeRepository) List(filter DiscountCodeListFilter) ([]models.DiscountCode, int64, error) {
	query := r.db.Model(&models.DiscountCode{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("code LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var codes []models.DiscountCode
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// GetByID returns one code, nil when absent.
func (r *GormDiscountCodeRepository) GetByID(id uint) (*models.DiscountCode, error) {
	var code models.DiscountCode
	if err := r.db.First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByCode returns one code by its string, nil when absent. Lookup is
// case-insensitive on the code.
func (r *GormDiscountCodeRepository) GetByCode(code string) (*models.DiscountCode, error) {
	var row models.DiscountCode
	err := r.db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a code.
func (r *GormDiscountCodeRepository) Create(code *models.DiscountCode) error {
	return r.db.Create(code).Error
}

// Update saves a code row.
func (r *GormDiscountCodeRepository) Update(code *models.DiscountCode) error {
	return r.db.Save(code).Error
}

// UpdateFields applies a partial update.
func (r *GormDiscountCodeRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.DiscountCode{}).Where("id = ?", id).Updates(updates).Error
}

// Delete soft-deletes a code.
func (r *GormDiscountCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.DiscountCode{}, id).Error
}

// ClaimUse atomically increments used_count, guarded by max_uses. Zero
// affected rows means the code is exhausted.
func (r *GormDiscountCodeRepository) ClaimUse(id uint) (int64, error) {
	result := r.db.Model(&models.DiscountCode{}).
		Where("id = ?", id).
		Where("max_uses IS NULL OR used_count < max_uses").
		Update("used_count", gorm.Expr("used_count + 1"))
	return result.RowsAffected, result.Error
}
