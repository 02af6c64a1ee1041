package repository

import (
	"errors"
	"strings"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByOrderNoAndPhone(orderNo, phone string) (*models.Order, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListByProgress(progress string) ([]models.Order, error)
	ListByPhone(phone string) ([]models.Order, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	CountByOrderNo(orderNo string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create inserts an order.
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID returns one order, nil when absent.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo returns one order by its human number, nil when absent.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNoAndPhone is the public tracking lookup: an order is only
// returned when the phone matches either the contact or the delivery phone.
func (r *GormOrderRepository) GetByOrderNoAndPhone(orderNo, phone string) (*models.Order, error) {
	phone = strings.TrimSpace(phone)
	var order models.Order
	err := r.db.
		Where("order_no = ?", orderNo).
		Where("phone = ? OR delivery_phone = ?", phone, phone).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListAdmin returns a filtered order page for the back-office.
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.Phone != "" {
		query = query.Where("phone = ? OR delivery_phone = ?", filter.Phone, filter.Phone)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderProgress != "" {
		query = query.Where("order_progress = ?", filter.OrderProgress)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("order_no LIKE ? OR delivery_name LIKE ? OR delivery_address LIKE ?", like, like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByProgress returns every order at the given progress, oldest first.
// Used by the merge candidate scan.
func (r *GormOrderRepository) ListByProgress(progress string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("order_progress = ?", progress).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

// ListByPhone returns every order matching a contact or delivery phone.
func (r *GormOrderRepository) ListByPhone(phone string) ([]models.Order, error) {
	phone = strings.TrimSpace(phone)
	var orders []models.Order
	err := r.db.
		Where("phone = ? OR delivery_phone = ?", phone, phone).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateFields applies a partial update to one order.
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// CountByOrderNo reports how many rows carry the given order number.
func (r *GormOrderRepository) CountByOrderNo(orderNo string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&count).Error
	return count, err
}
