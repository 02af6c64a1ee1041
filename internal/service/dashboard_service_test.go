package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDashboardServiceTest(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:dashboard_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.UserListing{},
		&models.Affiliate{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewDashboardService(repository.NewDashboardRepository(db)), db
}

func seedDashboardOrder(t *testing.T, db *gorm.DB, orderNo, paymentStatus, progress string, total int64, items models.OrderItemList) {
	t.Helper()
	order := models.Order{
		OrderNo:         orderNo,
		Phone:           "0900000001",
		DeliveryName:    "Ngọc",
		DeliveryPhone:   "0900000001",
		DeliveryAddress: "Quận 1, TP.HCM",
		Items:           items,
		TotalPrice:      models.NewMoneyFromInt(total),
		PaymentStatus:   paymentStatus,
		OrderProgress:   progress,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
}

func TestDashboardOverviewCounts(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)

	seedDashboardOrder(t, db, "PO250901-001", constants.PaymentStatusPaid, constants.OrderProgressCompleted, 300000, nil)
	seedDashboardOrder(t, db, "PO250901-002", constants.PaymentStatusUnpaid, constants.OrderProgressProcessing, 150000, nil)
	seedDashboardOrder(t, db, "PO250901-003", constants.PaymentStatusDeposited, constants.OrderProgressCancelled, 80000, nil)

	overview, err := svc.Overview(7)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.OrdersTotal != 3 {
		t.Fatalf("expected 3 orders, got %d", overview.OrdersTotal)
	}
	if overview.PaidOrders != 1 || overview.DepositedOrders != 1 {
		t.Fatalf("unexpected payment counts: %+v", overview)
	}
	if overview.CompletedOrders != 1 || overview.CancelledOrders != 1 {
		t.Fatalf("unexpected progress counts: %+v", overview)
	}
	if overview.RevenuePaid.IntPart() != 300000 {
		t.Fatalf("expected paid revenue 300000, got %s", overview.RevenuePaid.String())
	}
	if overview.ProgressCounts[constants.OrderProgressProcessing] != 1 {
		t.Fatalf("unexpected progress map: %+v", overview.ProgressCounts)
	}
}

func TestDashboardTopProducts(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)

	seedDashboardOrder(t, db, "PO250901-010", constants.PaymentStatusPaid, constants.OrderProgressCompleted, 450000, models.OrderItemList{
		{ProductID: 1, ProductName: "Áo thun Purin", Quantity: 2, Price: models.NewMoneyFromInt(150000)},
		{ProductID: 2, ProductName: "Móc khóa Purin", Quantity: 3, Price: models.NewMoneyFromInt(50000)},
	})
	seedDashboardOrder(t, db, "PO250901-011", constants.PaymentStatusUnpaid, constants.OrderProgressProcessing, 150000, models.OrderItemList{
		{ProductID: 1, ProductName: "Áo thun Purin", Quantity: 1, Price: models.NewMoneyFromInt(150000)},
	})
	// Cancelled orders stay out of the tally.
	seedDashboardOrder(t, db, "PO250901-012", constants.PaymentStatusUnpaid, constants.OrderProgressCancelled, 500000, models.OrderItemList{
		{ProductID: 2, ProductName: "Móc khóa Purin", Quantity: 10, Price: models.NewMoneyFromInt(50000)},
	})

	top, err := svc.TopProducts(7, 10)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 products, got %d", len(top))
	}
	if top[0].ProductID != 1 || top[0].Quantity != 3 {
		t.Fatalf("unexpected first row: %+v", top[0])
	}
	if top[0].Revenue.IntPart() != 450000 {
		t.Fatalf("expected revenue 450000, got %s", top[0].Revenue.String())
	}
	if top[1].ProductID != 2 || top[1].Quantity != 3 {
		t.Fatalf("unexpected second row: %+v", top[1])
	}
}
