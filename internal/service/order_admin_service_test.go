package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderStatusHistory{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	svc := NewOrderService(repository.NewOrderRepository(db), repository.NewStatusHistoryRepository(db), queueClient)
	return svc, db
}

func seedOrder(t *testing.T, db *gorm.DB, orderNo, paymentStatus, progress string) *models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:       orderNo,
		Phone:         "0901234567",
		Items:         models.OrderItemList{{ProductID: 1, ProductName: "Áo thun", Quantity: 1, Price: models.NewMoneyFromInt(150000)}},
		TotalPrice:    models.NewMoneyFromInt(150000),
		PaymentStatus: paymentStatus,
		OrderProgress: progress,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func TestUpdatePaymentStatusWritesHistory(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := seedOrder(t, db, "PO250901-001", constants.PaymentStatusAwaitingConfirm, constants.OrderProgressProcessing)

	updated, err := svc.UpdatePaymentStatus(UpdatePaymentStatusInput{
		OrderID: order.ID,
		To:      constants.PaymentStatusPaid,
		Actor:   "admin",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}

	var history models.OrderStatusHistory
	if err := db.Where("order_id = ?", order.ID).First(&history).Error; err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if history.Field != constants.HistoryFieldPaymentStatus ||
		history.OldValue != constants.PaymentStatusAwaitingConfirm ||
		history.NewValue != constants.PaymentStatusPaid ||
		history.Actor != "admin" {
		t.Fatalf("unexpected history row: %+v", history)
	}
}

func TestUpdatePaymentStatusRejectsIllegalTransition(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := seedOrder(t, db, "PO250901-002", constants.PaymentStatusPaid, constants.OrderProgressProcessing)

	_, err := svc.UpdatePaymentStatus(UpdatePaymentStatusInput{
		OrderID: order.ID,
		To:      constants.PaymentStatusUnpaid,
		Actor:   "admin",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	var count int64
	db.Model(&models.OrderStatusHistory{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no history rows, got %d", count)
	}
}

func TestUpdateProgressShippingRequiresTracking(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := seedOrder(t, db, "PO250901-003", constants.PaymentStatusPaid, constants.OrderProgressReadyToShip)

	_, err := svc.UpdateProgress(UpdateProgressInput{
		OrderID: order.ID,
		To:      constants.OrderProgressShipping,
		Actor:   "admin",
	})
	if !errors.Is(err, ErrTrackingRequired) {
		t.Fatalf("expected ErrTrackingRequired, got %v", err)
	}

	updated, err := svc.UpdateProgress(UpdateProgressInput{
		OrderID:          order.ID,
		To:               constants.OrderProgressShipping,
		ShippingProvider: "GHTK",
		TrackingCode:     "GHTK123456",
		Actor:            "admin",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ShippingProvider != "GHTK" || updated.TrackingCode != "GHTK123456" {
		t.Fatalf("expected shipping fields set, got %+v", updated)
	}
}

func TestUpdateProgressShippingKeepsExistingTracking(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := seedOrder(t, db, "PO250901-004", constants.PaymentStatusPaid, constants.OrderProgressReadyToShip)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"shipping_provider": "Viettel Post",
		"tracking_code":     "VT999",
	}).Error; err != nil {
		t.Fatalf("set tracking failed: %v", err)
	}

	updated, err := svc.UpdateProgress(UpdateProgressInput{
		OrderID: order.ID,
		To:      constants.OrderProgressShipping,
		Actor:   "admin",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ShippingProvider != "Viettel Post" || updated.TrackingCode != "VT999" {
		t.Fatalf("expected existing tracking kept, got %+v", updated)
	}
}

func TestTrackRequiresMatchingPhone(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := seedOrder(t, db, "PO250901-005", constants.PaymentStatusPaid, constants.OrderProgressProcessing)

	found, history, err := svc.Track(order.OrderNo, "0901234567")
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("unexpected order: %d", found.ID)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}

	if _, _, err := svc.Track(order.OrderNo, "0000000000"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestUpdateDetailsLeavesStatusAlone(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := seedOrder(t, db, "PO250901-006", constants.PaymentStatusPaid, constants.OrderProgressProcessing)

	note := "Khách xin giao buổi tối"
	surcharge := models.NewMoneyFromInt(20000)
	updated, err := svc.UpdateDetails(UpdateDetailsInput{
		OrderID:   order.ID,
		AdminNote: &note,
		Surcharge: &surcharge,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.AdminNote != note {
		t.Fatalf("expected note written, got %q", updated.AdminNote)
	}
	if !updated.Surcharge.Decimal.Equal(surcharge.Decimal) {
		t.Fatalf("expected surcharge written, got %s", updated.Surcharge.String())
	}
	if updated.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("status must be untouched, got %s", updated.PaymentStatus)
	}
}
