package repository

import (
	"errors"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// AffiliateOrderRepository is the commission record access interface.
type AffiliateOrderRepository interface {
	Create(record *models.AffiliateOrder) error
	GetByOrderID(orderID uint) (*models.AffiliateOrder, error)
	List(filter AffiliateOrderListFilter) ([]models.AffiliateOrder, int64, error)
	ListByStatus(affiliateID uint, status string) ([]models.AffiliateOrder, error)
	SumCommission(affiliateID uint, status string) (models.Money, error)
	CountByAffiliate(affiliateID uint, status string) (int64, error)
	UpdateStatus(id uint, status string) error
	UpdateStatusBulk(affiliateID uint, from, to string) (int64, error)
	WithTx(tx *gorm.DB) AffiliateOrderRepository
}

// GormAffiliateOrderRepository is the GORM implementation.
type GormAffiliateOrderRepository struct {
	db *gorm.DB
}

// NewAffiliateOrderRepository creates a commission record repository.
func NewAffiliateOrderRepository(db *gorm.DB) *GormAffiliateOrderRepository {
	return &GormAffiliateOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAffiliateOrderRepository) WithTx(tx *gorm.DB) AffiliateOrderRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateOrderRepository{db: tx}
}

// Create inserts a commission record.
func (r *GormAffiliateOrderRepository) Create(record *models.AffiliateOrder) error {
	return r.db.Create(record).Error
}

// GetByOrderID returns the commission record of one order, nil when absent.
func (r *GormAffiliateOrderRepository) GetByOrderID(orderID uint) (*models.AffiliateOrder, error) {
	var record models.AffiliateOrder
	if err := r.db.Where("order_id = ?", orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// List returns a filtered commission record page.
func (r *GormAffiliateOrderRepository) List(filter AffiliateOrderListFilter) ([]models.AffiliateOrder, int64, error) {
	query := r.db.Model(&models.AffiliateOrder{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.AffiliateOrder
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByStatus returns every record of one affiliate at the given status.
func (r *GormAffiliateOrderRepository) ListByStatus(affiliateID uint, status string) ([]models.AffiliateOrder, error) {
	var records []models.AffiliateOrder
	err := r.db.
		Where("affiliate_id = ? AND status = ?", affiliateID, status).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// SumCommission totals the commission of one affiliate at the given status.
func (r *GormAffiliateOrderRepository) SumCommission(affiliateID uint, status string) (models.Money, error) {
	var row struct {
		Total models.Money
	}
	err := r.db.Model(&models.AffiliateOrder{}).
		Select("COALESCE(SUM(commission), 0) AS total").
		Where("affiliate_id = ? AND status = ?", affiliateID, status).
		Take(&row).Error
	if err != nil {
		return models.Money{}, err
	}
	return row.Total, nil
}

// CountByAffiliate counts records of one affiliate, optionally by status.
func (r *GormAffiliateOrderRepository) CountByAffiliate(affiliateID uint, status string) (int64, error) {
	query := r.db.Model(&models.AffiliateOrder{}).Where("affiliate_id = ?", affiliateID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// UpdateStatus sets the status of one record.
func (r *GormAffiliateOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.AffiliateOrder{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateStatusBulk moves every record of one affiliate from one status to
// another, returning the number moved.
func (r *GormAffiliateOrderRepository) UpdateStatusBulk(affiliateID uint, from, to string) (int64, error) {
	result := r.db.Model(&models.AffiliateOrder{}).
		Where("affiliate_id = ? AND status = ?", affiliateID, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
