package repository

import (
	"errors"
	"strings"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository is the affiliate data access interface.
type AffiliateRepository interface {
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	ListAll() ([]models.Affiliate, error)
	GetByID(id uint) (*models.Affiliate, error)
	GetByReferralCode(code string) (*models.Affiliate, error)
	GetByPhone(phone string) (*models.Affiliate, error)
	Create(affiliate *models.Affiliate) error
	Update(affiliate *models.Affiliate) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository
}

// GormAffiliateRepository is the GORM implementation.
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates an affiliate repository.
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List returns a filtered affiliate page.
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR referral_code LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var affiliates []models.Affiliate
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&affiliates).Error; err != nil {
		return nil, 0, err
	}
	return affiliates, total, nil
}

// ListAll returns every affiliate, used by the bulk rate recompute.
func (r *GormAffiliateRepository) ListAll() ([]models.Affiliate, error) {
	var affiliates []models.Affiliate
	if err := r.db.Order("id ASC").Find(&affiliates).Error; err != nil {
		return nil, err
	}
	return affiliates, nil
}

// GetByID returns one affiliate, nil when absent.
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByReferralCode returns one affiliate by code, nil when absent.
func (r *GormAffiliateRepository) GetByReferralCode(code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.Where("UPPER(referral_code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&affiliate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByPhone returns one affiliate by phone, nil when absent.
func (r *GormAffiliateRepository) GetByPhone(phone string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.Where("phone = ?", strings.TrimSpace(phone)).First(&affiliate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// Create inserts an affiliate.
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// Update saves an affiliate row.
func (r *GormAffiliateRepository) Update(affiliate *models.Affiliate) error {
	return r.db.Save(affiliate).Error
}

// UpdateFields applies a partial update.
func (r *GormAffiliateRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Affiliate{}).Where("id = ?", id).Updates(updates).Error
}
