package repository

import (
	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// StatusHistoryRepository is the append-only status log access interface.
type StatusHistoryRepository interface {
	Append(entry *models.OrderStatusHistory) error
	ListByOrder(filter HistoryListFilter) ([]models.OrderStatusHistory, int64, error)
	WithTx(tx *gorm.DB) StatusHistoryRepository
}

// GormStatusHistoryRepository is the GORM implementation.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewStatusHistoryRepository creates a status history repository.
func NewStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormStatusHistoryRepository) WithTx(tx *gorm.DB) StatusHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormStatusHistoryRepository{db: tx}
}

// Append inserts one log row.
func (r *GormStatusHistoryRepository) Append(entry *models.OrderStatusHistory) error {
	return r.db.Create(entry).Error
}

// ListByOrder returns the log rows of one order, newest first.
func (r *GormStatusHistoryRepository) ListByOrder(filter HistoryListFilter) ([]models.OrderStatusHistory, int64, error) {
	query := r.db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", filter.OrderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.OrderStatusHistory
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
