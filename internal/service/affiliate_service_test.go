package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAffiliateServiceTest(t *testing.T) (*AffiliateService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:affiliate_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.AffiliateOrder{}, &models.Order{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	svc := NewAffiliateService(
		repository.NewAffiliateRepository(db),
		repository.NewAffiliateOrderRepository(db),
		repository.NewOrderRepository(db),
	)
	return svc, db
}

func TestAffiliateRegister(t *testing.T) {
	svc, _ := setupAffiliateServiceTest(t)

	affiliate, err := svc.Register(RegisterInput{
		Name:  "Chị Lan",
		Phone: "0912345678",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if affiliate.Status != constants.AffiliateStatusPending {
		t.Fatalf("expected pending, got %s", affiliate.Status)
	}
	if len(affiliate.ReferralCode) != referralCodeLength {
		t.Fatalf("unexpected referral code: %q", affiliate.ReferralCode)
	}
	if affiliate.CommissionRate != affiliateBaseRate {
		t.Fatalf("expected base rate, got %v", affiliate.CommissionRate)
	}

	if _, err := svc.Register(RegisterInput{Name: "Ai đó", Phone: "0912345678"}); !errors.Is(err, ErrAffiliateExists) {
		t.Fatalf("expected ErrAffiliateExists, got %v", err)
	}
}

func TestAffiliateModerateTransitions(t *testing.T) {
	svc, _ := setupAffiliateServiceTest(t)
	affiliate, err := svc.Register(RegisterInput{Name: "Chị Lan", Phone: "0912345678"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	approved, err := svc.Moderate(affiliate.ID, constants.AffiliateStatusApproved, "ok")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != constants.AffiliateStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	if _, err := svc.Moderate(affiliate.ID, constants.AffiliateStatusRejected, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	suspended, err := svc.Moderate(affiliate.ID, constants.AffiliateStatusSuspended, "spam")
	if err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if suspended.Status != constants.AffiliateStatusSuspended {
		t.Fatalf("expected suspended, got %s", suspended.Status)
	}
}

func seedCommission(t *testing.T, db *gorm.DB, affiliateID, orderID uint, amount int64, status string) {
	t.Helper()
	record := models.AffiliateOrder{
		AffiliateID: affiliateID,
		OrderID:     orderID,
		OrderNo:     fmt.Sprintf("PO250901-%03d", orderID),
		OrderTotal:  models.NewMoneyFromInt(amount * 20),
		Commission:  models.NewMoneyFromInt(amount),
		Status:      status,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
}

func TestConfirmForOrderMovesPendingOnly(t *testing.T) {
	svc, db := setupAffiliateServiceTest(t)
	affiliate := models.Affiliate{Name: "Chị Lan", ReferralCode: "LAN12345", Status: constants.AffiliateStatusApproved}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	seedCommission(t, db, affiliate.ID, 1, 10000, constants.AffiliateOrderStatusPending)

	if err := svc.ConfirmForOrder(1); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	var record models.AffiliateOrder
	if err := db.Where("order_id = ?", 1).First(&record).Error; err != nil {
		t.Fatalf("load record failed: %v", err)
	}
	if record.Status != constants.AffiliateOrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", record.Status)
	}
	var after models.Affiliate
	if err := db.First(&after, affiliate.ID).Error; err != nil {
		t.Fatalf("load affiliate failed: %v", err)
	}
	if !after.TotalEarnings.Decimal.Equal(models.NewMoneyFromInt(10000).Decimal) {
		t.Fatalf("expected total earnings 10000, got %s", after.TotalEarnings.String())
	}

	// Second call is a no-op.
	if err := svc.ConfirmForOrder(1); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if err := db.First(&after, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if !after.TotalEarnings.Decimal.Equal(models.NewMoneyFromInt(10000).Decimal) {
		t.Fatalf("confirm must be idempotent, got %s", after.TotalEarnings.String())
	}
}

func TestPayCommissionIdempotent(t *testing.T) {
	svc, db := setupAffiliateServiceTest(t)
	affiliate := models.Affiliate{
		Name:            "Chị Lan",
		ReferralCode:    "LAN12345",
		Status:          constants.AffiliateStatusApproved,
		PendingEarnings: models.NewMoneyFromInt(30000),
	}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	seedCommission(t, db, affiliate.ID, 1, 10000, constants.AffiliateOrderStatusConfirmed)
	seedCommission(t, db, affiliate.ID, 2, 20000, constants.AffiliateOrderStatusConfirmed)
	seedCommission(t, db, affiliate.ID, 3, 5000, constants.AffiliateOrderStatusPending)

	paid, err := svc.PayCommission(affiliate.ID)
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if !paid.Decimal.Equal(models.NewMoneyFromInt(30000).Decimal) {
		t.Fatalf("expected paid 30000, got %s", paid.String())
	}

	var after models.Affiliate
	if err := db.First(&after, affiliate.ID).Error; err != nil {
		t.Fatalf("load affiliate failed: %v", err)
	}
	if !after.PaidEarnings.Decimal.Equal(models.NewMoneyFromInt(30000).Decimal) {
		t.Fatalf("expected paid earnings 30000, got %s", after.PaidEarnings.String())
	}
	if !after.PendingEarnings.Decimal.IsZero() {
		t.Fatalf("expected pending earnings 0, got %s", after.PendingEarnings.String())
	}

	var pendingCount int64
	db.Model(&models.AffiliateOrder{}).Where("status = ?", constants.AffiliateOrderStatusPending).Count(&pendingCount)
	if pendingCount != 1 {
		t.Fatalf("pending record must not be paid, got %d remaining", pendingCount)
	}

	// Nothing confirmed is left, so paying again settles zero and touches
	// no balances.
	again, err := svc.PayCommission(affiliate.ID)
	if err != nil {
		t.Fatalf("second pay failed: %v", err)
	}
	if !again.Decimal.IsZero() {
		t.Fatalf("expected second pay 0, got %s", again.String())
	}
	var unchanged models.Affiliate
	if err := db.First(&unchanged, affiliate.ID).Error; err != nil {
		t.Fatalf("load affiliate failed: %v", err)
	}
	if !unchanged.PaidEarnings.Decimal.Equal(models.NewMoneyFromInt(30000).Decimal) {
		t.Fatalf("expected paid earnings unchanged, got %s", unchanged.PaidEarnings.String())
	}
}

func TestRecomputeRatesTiers(t *testing.T) {
	svc, db := setupAffiliateServiceTest(t)
	rows := []models.Affiliate{
		{Name: "A", ReferralCode: "AAAA1111", Status: constants.AffiliateStatusApproved, CommissionRate: affiliateBaseRate, OrderCount: 3},
		{Name: "B", ReferralCode: "BBBB1111", Status: constants.AffiliateStatusApproved, CommissionRate: affiliateBaseRate, OrderCount: 12},
		{Name: "C", ReferralCode: "CCCC1111", Status: constants.AffiliateStatusApproved, CommissionRate: affiliateBaseRate, OrderCount: 80},
		{Name: "D", ReferralCode: "DDDD1111", Status: constants.AffiliateStatusPending, CommissionRate: affiliateBaseRate, OrderCount: 80},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("create affiliate failed: %v", err)
		}
	}

	changes, err := svc.RecomputeRates()
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 rate changes, got %d", len(changes))
	}
	if changes[0].Name != "B" || changes[0].OldRate != affiliateBaseRate || changes[0].NewRate != affiliateMidRate {
		t.Fatalf("unexpected first change: %+v", changes[0])
	}
	if changes[1].Name != "C" || changes[1].NewRate != affiliateTopRate {
		t.Fatalf("unexpected second change: %+v", changes[1])
	}

	want := []float64{affiliateBaseRate, affiliateMidRate, affiliateTopRate, affiliateBaseRate}
	for i := range rows {
		var after models.Affiliate
		if err := db.First(&after, rows[i].ID).Error; err != nil {
			t.Fatalf("load affiliate failed: %v", err)
		}
		if after.CommissionRate != want[i] {
			t.Fatalf("%s: expected rate %v, got %v", rows[i].Name, want[i], after.CommissionRate)
		}
	}
}

func TestTierRate(t *testing.T) {
	cases := []struct {
		orders int
		want   float64
	}{
		{0, affiliateBaseRate},
		{9, affiliateBaseRate},
		{10, affiliateMidRate},
		{49, affiliateMidRate},
		{50, affiliateTopRate},
		{200, affiliateTopRate},
	}
	for _, tc := range cases {
		if got := tierRate(tc.orders); got != tc.want {
			t.Fatalf("tierRate(%d) = %v, want %v", tc.orders, got, tc.want)
		}
	}
}
