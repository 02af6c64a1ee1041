package service

import (
	"errors"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"

	"github.com/shopspring/decimal"
)

func TestComputeDiscountPercentageCapped(t *testing.T) {
	maxDiscount := models.NewMoneyFromInt(30000)
	dc := &models.DiscountCode{
		Code:        "GIAM10",
		Type:        constants.DiscountTypePercentage,
		Value:       models.NewMoneyFromInt(10),
		MaxDiscount: &maxDiscount,
		IsActive:    true,
	}
	lines := []DiscountLine{
		{ProductID: 1, Category: "Thời trang", Subtotal: decimal.NewFromInt(500000)},
	}
	amount, err := computeDiscount(dc, lines, time.Now())
	if err != nil {
		t.Fatalf("computeDiscount error: %v", err)
	}
	// 10% of 500000 is 50000, capped at 30000.
	if !amount.Decimal.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("expected 30000, got %s", amount.String())
	}
}

func TestComputeDiscountFixedNeverExceedsEligible(t *testing.T) {
	dc := &models.DiscountCode{
		Code:     "GIAM100",
		Type:     constants.DiscountTypeFixed,
		Value:    models.NewMoneyFromInt(100000),
		IsActive: true,
	}
	lines := []DiscountLine{
		{ProductID: 1, Subtotal: decimal.NewFromInt(60000)},
	}
	amount, err := computeDiscount(dc, lines, time.Now())
	if err != nil {
		t.Fatalf("computeDiscount error: %v", err)
	}
	if !amount.Decimal.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("expected 60000, got %s", amount.String())
	}
}

func TestComputeDiscountMinOrderValue(t *testing.T) {
	minOrder := models.NewMoneyFromInt(200000)
	dc := &models.DiscountCode{
		Code:          "GIAM20",
		Type:          constants.DiscountTypeFixed,
		Value:         models.NewMoneyFromInt(20000),
		MinOrderValue: &minOrder,
		IsActive:      true,
	}
	lines := []DiscountLine{
		{ProductID: 1, Subtotal: decimal.NewFromInt(150000)},
	}
	if _, err := computeDiscount(dc, lines, time.Now()); !errors.Is(err, ErrDiscountNotApplied) {
		t.Fatalf("expected ErrDiscountNotApplied, got %v", err)
	}
	// The threshold counts the whole cart, not just eligible lines.
	lines = append(lines, DiscountLine{ProductID: 2, Subtotal: decimal.NewFromInt(100000)})
	if _, err := computeDiscount(dc, lines, time.Now()); err != nil {
		t.Fatalf("expected discount to apply, got %v", err)
	}
}

func TestComputeDiscountScopes(t *testing.T) {
	dc := &models.DiscountCode{
		Code:       "AOTHUN10",
		Type:       constants.DiscountTypePercentage,
		Value:      models.NewMoneyFromInt(10),
		ProductIDs: models.StringArray{"1"},
		Categories: models.StringArray{"Phụ kiện"},
		IsActive:   true,
	}
	lines := []DiscountLine{
		{ProductID: 1, Category: "Thời trang", Subtotal: decimal.NewFromInt(100000)},
		{ProductID: 2, Category: "Phụ kiện", Subtotal: decimal.NewFromInt(50000)},
		{ProductID: 3, Category: "Đồ dùng", Subtotal: decimal.NewFromInt(80000)},
	}
	amount, err := computeDiscount(dc, lines, time.Now())
	if err != nil {
		t.Fatalf("computeDiscount error: %v", err)
	}
	// Only lines 1 and 2 are eligible: 10% of 150000.
	if !amount.Decimal.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("expected 15000, got %s", amount.String())
	}

	outOfScope := []DiscountLine{
		{ProductID: 3, Category: "Đồ dùng", Subtotal: decimal.NewFromInt(80000)},
	}
	if _, err := computeDiscount(dc, outOfScope, time.Now()); !errors.Is(err, ErrDiscountNotApplied) {
		t.Fatalf("expected ErrDiscountNotApplied, got %v", err)
	}
}

func TestComputeDiscountWindowAndState(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	maxUses := 5
	lines := []DiscountLine{{ProductID: 1, Subtotal: decimal.NewFromInt(100000)}}

	cases := []struct {
		name string
		dc   models.DiscountCode
		want error
	}{
		{
			name: "inactive",
			dc:   models.DiscountCode{Type: constants.DiscountTypeFixed, Value: models.NewMoneyFromInt(10000), IsActive: false},
			want: ErrDiscountInvalid,
		},
		{
			name: "not started",
			dc:   models.DiscountCode{Type: constants.DiscountTypeFixed, Value: models.NewMoneyFromInt(10000), IsActive: true, StartsAt: &future},
			want: ErrDiscountInvalid,
		},
		{
			name: "ended",
			dc:   models.DiscountCode{Type: constants.DiscountTypeFixed, Value: models.NewMoneyFromInt(10000), IsActive: true, EndsAt: &past},
			want: ErrDiscountInvalid,
		},
		{
			name: "exhausted",
			dc:   models.DiscountCode{Type: constants.DiscountTypeFixed, Value: models.NewMoneyFromInt(10000), IsActive: true, MaxUses: &maxUses, UsedCount: 5},
			want: ErrDiscountExhausted,
		},
	}
	for _, tc := range cases {
		if _, err := computeDiscount(&tc.dc, lines, now); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
