package repository

import (
	"errors"
	"strings"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// ListingRepository is the user listing data access interface.
type ListingRepository interface {
	List(filter ListingListFilter) ([]models.UserListing, int64, error)
	GetByID(id uint) (*models.UserListing, error)
	GetByCode(code string) (*models.UserListing, error)
	Create(listing *models.UserListing) error
	Update(listing *models.UserListing) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	Count() (int64, error)
	WithTx(tx *gorm.DB) ListingRepository
}

// GormListingRepository is the GORM implementation.
type GormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a user listing repository.
func NewListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormListingRepository) WithTx(tx *gorm.DB) ListingRepository {
	if tx == nil {
		return r
	}
	return &GormListingRepository{db: tx}
}

// List returns a filtered listing page.
func (r *GormListingRepository) List(filter ListingListFilter) ([]models.UserListing, int64, error) {
	query := r.db.Model(&models.UserListing{})
	if filter.Tag != "" {
		query = query.Where("tag = ?", filter.Tag)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.UserListing
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// GetByID returns one listing, nil when absent.
func (r *GormListingRepository) GetByID(id uint) (*models.UserListing, error) {
	var listing models.UserListing
	if err := r.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// GetByCode returns one listing by its human code, nil when absent.
func (r *GormListingRepository) GetByCode(code string) (*models.UserListing, error) {
	var listing models.UserListing
	if err := r.db.Where("code = ?", strings.TrimSpace(code)).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// Create inserts a listing.
func (r *GormListingRepository) Create(listing *models.UserListing) error {
	return r.db.Create(listing).Error
}

// Update saves a listing row.
func (r *GormListingRepository) Update(listing *models.UserListing) error {
	return r.db.Save(listing).Error
}

// UpdateFields applies a partial update.
func (r *GormListingRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.UserListing{}).Where("id = ?", id).Updates(updates).Error
}

// Delete soft-deletes a listing.
func (r *GormListingRepository) Delete(id uint) error {
	return r.db.Delete(&models.UserListing{}, id).Error
}

// Count returns the total number of listings ever created, including
// soft-deleted rows, used for human code generation.
func (r *GormListingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.UserListing{}).Count(&count).Error
	return count, err
}
