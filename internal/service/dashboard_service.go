package service

import (
	"sort"
	"time"

	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardMaxDays = 90

// DashboardService aggregates the admin home page numbers server side, so
// the UI never sums money in the browser.
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardOverview is the admin home page payload.
type DashboardOverview struct {
	From              string           `json:"from"`
	To                string           `json:"to"`
	OrdersTotal       int64            `json:"orders_total"`
	PaidOrders        int64            `json:"paid_orders"`
	DepositedOrders   int64            `json:"deposited_orders"`
	CompletedOrders   int64            `json:"completed_orders"`
	CancelledOrders   int64            `json:"cancelled_orders"`
	RevenuePaid       models.Money     `json:"revenue_paid"`
	ActiveProducts    int64            `json:"active_products"`
	PendingListings   int64            `json:"pending_listings"`
	PendingAffiliates int64            `json:"pending_affiliates"`
	ProgressCounts    map[string]int64 `json:"progress_counts"`
}

// DashboardTrendPoint is one day of the volume chart.
type DashboardTrendPoint struct {
	Day         string       `json:"day"`
	OrdersTotal int64        `json:"orders_total"`
	Revenue     models.Money `json:"revenue"`
}

// Overview computes the headline numbers for the last N days.
func (s *DashboardService) Overview(days int) (*DashboardOverview, error) {
	startAt, endAt := dashboardWindow(days)
	row, err := s.dashboardRepo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	progress, err := s.dashboardRepo.GetProgressCounts()
	if err != nil {
		return nil, err
	}
	return &DashboardOverview{
		From:              startAt.Format("2006-01-02"),
		To:                endAt.Format("2006-01-02"),
		OrdersTotal:       row.OrdersTotal,
		PaidOrders:        row.PaidOrders,
		DepositedOrders:   row.DepositedOrders,
		CompletedOrders:   row.CompletedOrders,
		CancelledOrders:   row.CancelledOrders,
		RevenuePaid:       models.NewMoneyFromDecimal(decimal.NewFromFloat(row.RevenuePaid)),
		ActiveProducts:    row.ActiveProducts,
		PendingListings:   row.PendingListings,
		PendingAffiliates: row.PendingAffiliates,
		ProgressCounts:    progress,
	}, nil
}

// Trends returns the per-day order volume for the last N days.
func (s *DashboardService) Trends(days int) ([]DashboardTrendPoint, error) {
	startAt, endAt := dashboardWindow(days)
	rows, err := s.dashboardRepo.GetOrderTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	points := make([]DashboardTrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, DashboardTrendPoint{
			Day:         row.Day,
			OrdersTotal: row.OrdersTotal,
			Revenue:     models.NewMoneyFromDecimal(decimal.NewFromFloat(row.Revenue)),
		})
	}
	return points, nil
}

// DashboardTopProduct is one row of the best sellers table.
type DashboardTopProduct struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	Revenue     models.Money `json:"revenue"`
}

// TopProducts tallies the best selling products of the last N days from the
// order item snapshots.
func (s *DashboardService) TopProducts(days, limit int) ([]DashboardTopProduct, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	startAt, endAt := dashboardWindow(days)
	lists, err := s.dashboardRepo.GetOrderItems(startAt, endAt)
	if err != nil {
		return nil, err
	}

	type tally struct {
		name     string
		quantity int
		revenue  decimal.Decimal
	}
	byProduct := make(map[uint]*tally)
	for _, items := range lists {
		for _, item := range items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &tally{name: item.ProductName, revenue: decimal.Zero}
				byProduct[item.ProductID] = entry
			}
			entry.quantity += item.Quantity
			entry.revenue = entry.revenue.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	top := make([]DashboardTopProduct, 0, len(byProduct))
	for id, entry := range byProduct {
		top = append(top, DashboardTopProduct{
			ProductID:   id,
			ProductName: entry.name,
			Quantity:    entry.quantity,
			Revenue:     models.NewMoneyFromDecimal(entry.revenue),
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func dashboardWindow(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = 7
	}
	if days > dashboardMaxDays {
		days = dashboardMaxDays
	}
	now := time.Now()
	endAt := now.Add(24 * time.Hour).Truncate(24 * time.Hour)
	startAt := endAt.AddDate(0, 0, -days)
	return startAt, endAt
}
