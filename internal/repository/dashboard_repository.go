package repository

import (
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository aggregates the back-office overview numbers. Pure
// reporting; no business rules live here.
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetProgressCounts() (map[string]int64, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetOrderItems(startAt, endAt time.Time) ([]models.OrderItemList, error)
}

// DashboardOverviewRow is the raw overview aggregate.
type DashboardOverviewRow struct {
	OrdersTotal       int64
	PaidOrders        int64
	DepositedOrders   int64
	CompletedOrders   int64
	CancelledOrders   int64
	RevenuePaid       float64
	ActiveProducts    int64
	PendingListings   int64
	PendingAffiliates int64
}

// DashboardOrderTrendRow is one day of order volume.
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	Revenue     float64
}

// GormDashboardRepository is the GORM implementation.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a dashboard repository.
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview runs the headline aggregates for one period.
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	var row DashboardOverviewRow

	orders := r.db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
	if err := orders.Count(&row.OrdersTotal).Error; err != nil {
		return row, err
	}
	if err := r.countOrders(startAt, endAt, "payment_status = ?", constants.PaymentStatusPaid, &row.PaidOrders); err != nil {
		return row, err
	}
	if err := r.countOrders(startAt, endAt, "payment_status = ?", constants.PaymentStatusDeposited, &row.DepositedOrders); err != nil {
		return row, err
	}
	if err := r.countOrders(startAt, endAt, "order_progress = ?", constants.OrderProgressCompleted, &row.CompletedOrders); err != nil {
		return row, err
	}
	if err := r.countOrders(startAt, endAt, "order_progress = ?", constants.OrderProgressCancelled, &row.CancelledOrders); err != nil {
		return row, err
	}

	if err := r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&row.RevenuePaid).Error; err != nil {
		return row, err
	}

	if err := r.db.Model(&models.Product{}).
		Where("status <> ?", constants.ProductStatusHidden).
		Count(&row.ActiveProducts).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.UserListing{}).
		Where("status = ?", constants.ListingStatusPending).
		Count(&row.PendingListings).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Affiliate{}).
		Where("status = ?", constants.AffiliateStatusPending).
		Count(&row.PendingAffiliates).Error; err != nil {
		return row, err
	}
	return row, nil
}

// GetProgressCounts counts live orders per progress value.
func (r *GormDashboardRepository) GetProgressCounts() (map[string]int64, error) {
	type countRow struct {
		OrderProgress string
		Total         int64
	}
	var rows []countRow
	if err := r.db.Model(&models.Order{}).
		Select("order_progress, COUNT(*) AS total").
		Group("order_progress").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.OrderProgress] = row.Total
	}
	return out, nil
}

// GetOrderTrends buckets order volume per day. DATE() works on both sqlite
// and postgres.
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	var rows []DashboardOrderTrendRow
	err := r.db.Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders_total, COALESCE(SUM(total_price), 0) AS revenue").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

// GetOrderItems loads the item snapshots of every non-cancelled order in
// one period. Items live in a JSON column, so per-product aggregation
// happens in the service.
func (r *GormDashboardRepository) GetOrderItems(startAt, endAt time.Time) ([]models.OrderItemList, error) {
	var orders []models.Order
	if err := r.db.Model(&models.Order{}).
		Select("items").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Where("order_progress <> ?", constants.OrderProgressCancelled).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	lists := make([]models.OrderItemList, 0, len(orders))
	for _, order := range orders {
		lists = append(lists, order.Items)
	}
	return lists, nil
}

func (r *GormDashboardRepository) countOrders(startAt, endAt time.Time, cond string, value interface{}, out *int64) error {
	return r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Where(cond, value).
		Count(out).Error
}
