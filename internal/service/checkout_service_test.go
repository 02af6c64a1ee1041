package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.DiscountCode{},
		&models.Affiliate{},
		&models.AffiliateOrder{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	discountRepo := repository.NewDiscountCodeRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	affOrderRepo := repository.NewAffiliateOrderRepository(db)
	catalog := NewCatalogService(productRepo, nil)
	discounts := NewDiscountService(discountRepo)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	svc := NewCheckoutService(orderRepo, productRepo, discountRepo, affiliateRepo, affOrderRepo, catalog, discounts, queueClient)
	return svc, db
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, name, master string, price int64, stock *int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    models.NewMoneyFromInt(price),
		Category: "Thời trang",
		Status:   constants.ProductStatusAvailable,
		Master:   master,
		Stock:    stock,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func checkoutInput(items ...CheckoutItem) CheckoutInput {
	return CheckoutInput{
		Phone:           "0901234567",
		DeliveryName:    "Ngọc",
		DeliveryPhone:   "0901234567",
		DeliveryAddress: "12 Lê Lợi, Quận 1",
		PaymentType:     constants.PaymentTypeFull,
		PaymentMethod:   constants.PaymentMethodBankTransfer,
		Items:           items,
	}
}

func TestCheckoutSplitsByMaster(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	a := seedCheckoutProduct(t, db, "Áo thun", "xuongA", 150000, nil)
	b := seedCheckoutProduct(t, db, "Móc khóa", "xuongB", 45000, nil)

	orders, err := svc.Checkout(context.Background(), checkoutInput(
		CheckoutItem{ProductID: a.ID, Quantity: 2},
		CheckoutItem{ProductID: b.ID, Quantity: 1},
	))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// Groups come back sorted by master key.
	if orders[0].Items[0].Master != "xuongA" || orders[1].Items[0].Master != "xuongB" {
		t.Fatalf("unexpected group order: %s / %s", orders[0].Items[0].Master, orders[1].Items[0].Master)
	}
	if !orders[0].TotalPrice.Decimal.Equal(models.NewMoneyFromInt(300000).Decimal) {
		t.Fatalf("expected total 300000, got %s", orders[0].TotalPrice.String())
	}
	if !orders[1].TotalPrice.Decimal.Equal(models.NewMoneyFromInt(45000).Decimal) {
		t.Fatalf("expected total 45000, got %s", orders[1].TotalPrice.String())
	}
	for _, order := range orders {
		if !strings.HasPrefix(order.OrderNo, "PO") {
			t.Fatalf("unexpected order no: %s", order.OrderNo)
		}
		if order.PaymentStatus != constants.PaymentStatusAwaitingConfirm {
			t.Fatalf("unexpected payment status: %s", order.PaymentStatus)
		}
		if order.OrderProgress != constants.OrderProgressProcessing {
			t.Fatalf("unexpected progress: %s", order.OrderProgress)
		}
	}
}

func TestCheckoutDepositStartsDepositConfirming(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Gối ôm", "xuongA", 320000, nil)

	input := checkoutInput(CheckoutItem{ProductID: product.ID, Quantity: 1})
	input.PaymentType = constants.PaymentTypeDeposit
	orders, err := svc.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if orders[0].PaymentStatus != constants.PaymentStatusDepositConfirming {
		t.Fatalf("expected deposit confirming, got %s", orders[0].PaymentStatus)
	}
}

func TestCheckoutClampsStockAtZero(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	stock := 1
	product := seedCheckoutProduct(t, db, "Móc khóa", "xuongB", 45000, &stock)

	_, err := svc.Checkout(context.Background(), checkoutInput(CheckoutItem{ProductID: product.ID, Quantity: 3}))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	var after models.Product
	if err := db.First(&after, product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if after.Stock == nil || *after.Stock != 0 {
		t.Fatalf("expected stock clamped to 0, got %v", after.Stock)
	}
}

func TestCheckoutVariantStock(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Áo thun", "xuongA", 150000, nil)
	stock := 5
	variant := models.ProductVariant{
		ProductID: product.ID,
		Name:      "M Kem",
		Price:     models.NewMoneyFromInt(160000),
		Stock:     &stock,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	orders, err := svc.Checkout(context.Background(), checkoutInput(CheckoutItem{ProductID: product.ID, Variant: "M Kem", Quantity: 2}))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !orders[0].TotalPrice.Decimal.Equal(models.NewMoneyFromInt(320000).Decimal) {
		t.Fatalf("expected variant price used, got %s", orders[0].TotalPrice.String())
	}

	var after models.ProductVariant
	if err := db.First(&after, variant.ID).Error; err != nil {
		t.Fatalf("load variant failed: %v", err)
	}
	if after.Stock == nil || *after.Stock != 3 {
		t.Fatalf("expected stock 3, got %v", after.Stock)
	}
}

func TestCheckoutUnknownVariantRejected(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Áo thun", "xuongA", 150000, nil)

	_, err := svc.Checkout(context.Background(), checkoutInput(CheckoutItem{ProductID: product.ID, Variant: "XXL Tím", Quantity: 1}))
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestCheckoutRejectsExpiredDeadline(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Móc khóa order", "xuongB", 45000, nil)
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("order_deadline", past).Error; err != nil {
		t.Fatalf("set deadline failed: %v", err)
	}

	_, err := svc.Checkout(context.Background(), checkoutInput(CheckoutItem{ProductID: product.ID, Quantity: 1}))
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestCheckoutAppliesDiscountAcrossGroups(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	a := seedCheckoutProduct(t, db, "Áo thun", "xuongA", 100000, nil)
	b := seedCheckoutProduct(t, db, "Móc khóa", "xuongB", 50000, nil)

	maxUses := 1
	code := models.DiscountCode{
		Code:     "GIAM120",
		Type:     constants.DiscountTypeFixed,
		Value:    models.NewMoneyFromInt(120000),
		MaxUses:  &maxUses,
		IsActive: true,
	}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("create discount failed: %v", err)
	}

	input := checkoutInput(
		CheckoutItem{ProductID: a.ID, Quantity: 1},
		CheckoutItem{ProductID: b.ID, Quantity: 1},
	)
	input.DiscountCode = "giam120"
	orders, err := svc.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// First group absorbs up to its own total, the rest carries over.
	if !orders[0].DiscountAmount.Decimal.Equal(models.NewMoneyFromInt(100000).Decimal) {
		t.Fatalf("expected first group discount 100000, got %s", orders[0].DiscountAmount.String())
	}
	if !orders[1].DiscountAmount.Decimal.Equal(models.NewMoneyFromInt(20000).Decimal) {
		t.Fatalf("expected second group discount 20000, got %s", orders[1].DiscountAmount.String())
	}
	if !orders[0].TotalPrice.Decimal.IsZero() {
		t.Fatalf("expected first group total 0, got %s", orders[0].TotalPrice.String())
	}

	var claimed models.DiscountCode
	if err := db.First(&claimed, code.ID).Error; err != nil {
		t.Fatalf("load discount failed: %v", err)
	}
	if claimed.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", claimed.UsedCount)
	}

	// The single use is gone now.
	second := checkoutInput(CheckoutItem{ProductID: a.ID, Quantity: 1})
	second.Phone = "0909999999"
	second.DiscountCode = "GIAM120"
	_, err = svc.Checkout(context.Background(), second)
	if !errors.Is(err, ErrDiscountExhausted) {
		t.Fatalf("expected ErrDiscountExhausted, got %v", err)
	}
}

func TestCheckoutRecordsAffiliateCommission(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Gối ôm", "xuongA", 200000, nil)
	affiliate := models.Affiliate{
		Name:           "Chị Lan",
		Phone:          "0912345678",
		ReferralCode:   "LAN12345",
		CommissionRate: 0.05,
		Status:         constants.AffiliateStatusApproved,
	}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	input := checkoutInput(CheckoutItem{ProductID: product.ID, Quantity: 1})
	input.AffiliateCode = "LAN12345"
	orders, err := svc.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if orders[0].AffiliateCode != "LAN12345" {
		t.Fatalf("expected affiliate code on order, got %q", orders[0].AffiliateCode)
	}

	var record models.AffiliateOrder
	if err := db.Where("order_id = ?", orders[0].ID).First(&record).Error; err != nil {
		t.Fatalf("load affiliate order failed: %v", err)
	}
	if record.Status != constants.AffiliateOrderStatusPending {
		t.Fatalf("expected pending commission, got %s", record.Status)
	}
	if !record.Commission.Decimal.Equal(models.NewMoneyFromInt(10000).Decimal) {
		t.Fatalf("expected commission 10000, got %s", record.Commission.String())
	}

	var after models.Affiliate
	if err := db.First(&after, affiliate.ID).Error; err != nil {
		t.Fatalf("load affiliate failed: %v", err)
	}
	if after.OrderCount != 1 {
		t.Fatalf("expected order count 1, got %d", after.OrderCount)
	}
	if !after.PendingEarnings.Decimal.Equal(models.NewMoneyFromInt(10000).Decimal) {
		t.Fatalf("expected pending earnings 10000, got %s", after.PendingEarnings.String())
	}
}

func TestCheckoutIgnoresPendingAffiliate(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Gối ôm", "xuongA", 200000, nil)
	affiliate := models.Affiliate{
		Name:           "Chị Lan",
		Phone:          "0912345678",
		ReferralCode:   "LAN12345",
		CommissionRate: 0.05,
		Status:         constants.AffiliateStatusPending,
	}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	input := checkoutInput(CheckoutItem{ProductID: product.ID, Quantity: 1})
	input.AffiliateCode = "LAN12345"
	orders, err := svc.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if orders[0].AffiliateCode != "" {
		t.Fatalf("expected no affiliate code, got %q", orders[0].AffiliateCode)
	}
	var count int64
	db.Model(&models.AffiliateOrder{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no commission records, got %d", count)
	}
}

func TestCheckoutValidatesInput(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	product := seedCheckoutProduct(t, db, "Áo thun", "xuongA", 150000, nil)

	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"empty phone", func(in *CheckoutInput) { in.Phone = "" }},
		{"empty cart", func(in *CheckoutInput) { in.Items = nil }},
		{"bad payment type", func(in *CheckoutInput) { in.PaymentType = "cod" }},
		{"zero quantity", func(in *CheckoutInput) { in.Items[0].Quantity = 0 }},
		{"empty delivery name", func(in *CheckoutInput) { in.DeliveryName = "" }},
		{"empty delivery phone", func(in *CheckoutInput) { in.DeliveryPhone = " " }},
		{"empty delivery address", func(in *CheckoutInput) { in.DeliveryAddress = "" }},
	}
	for _, tc := range cases {
		input := checkoutInput(CheckoutItem{ProductID: product.ID, Quantity: 1})
		tc.mutate(&input)
		if _, err := svc.Checkout(context.Background(), input); !errors.Is(err, ErrInvalidOrderItem) {
			t.Fatalf("%s: expected ErrInvalidOrderItem, got %v", tc.name, err)
		}
	}
}

func TestQuotePricesWithoutWriting(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	a := seedCheckoutProduct(t, db, "Áo thun", "xuongA", 100000, nil)
	b := seedCheckoutProduct(t, db, "Móc khóa", "xuongB", 50000, nil)

	quote, err := svc.Quote(context.Background(), CheckoutInput{
		Items: []CheckoutItem{
			{ProductID: a.ID, Quantity: 1},
			{ProductID: b.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Subtotal.Decimal.Equal(models.NewMoneyFromInt(200000).Decimal) {
		t.Fatalf("expected subtotal 200000, got %s", quote.Subtotal.String())
	}
	if quote.GroupCount != 2 {
		t.Fatalf("expected 2 groups, got %d", quote.GroupCount)
	}
	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("quote must not create orders, got %d", count)
	}
}
