package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/shopspring/decimal"
)

// DiscountService manages discount codes and computes discount amounts.
// Redemption itself happens inside the checkout transaction via ClaimUse so
// a code can never be used past its limit under concurrent checkouts.
type DiscountService struct {
	discountRepo repository.DiscountCodeRepository
}

// NewDiscountService creates the discount service.
func NewDiscountService(discountRepo repository.DiscountCodeRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo}
}

// DiscountLine is one cart line as the evaluator sees it.
type DiscountLine struct {
	ProductID uint
	Category  string
	Subtotal  decimal.Decimal
}

// List returns codes for the admin table.
func (s *DiscountService) List(filter repository.DiscountCodeListFilter) ([]models.DiscountCode, int64, error) {
	return s.discountRepo.List(filter)
}

// Get returns one code by id.
func (s *DiscountService) Get(id uint) (*models.DiscountCode, error) {
	dc, err := s.discountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, ErrDiscountNotFound
	}
	return dc, nil
}

// Create saves a new code. Codes are stored upper case.
func (s *DiscountService) Create(dc *models.DiscountCode) error {
	dc.Code = strings.ToUpper(strings.TrimSpace(dc.Code))
	if dc.Code == "" {
		return ErrDiscountInvalid
	}
	if dc.Type != constants.DiscountTypePercentage && dc.Type != constants.DiscountTypeFixed {
		return ErrDiscountInvalid
	}
	existing, err := s.discountRepo.GetByCode(dc.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDiscountInvalid
	}
	return s.discountRepo.Create(dc)
}

// Update rewrites a code. UsedCount is never written from the admin form.
func (s *DiscountService) Update(dc *models.DiscountCode) error {
	existing, err := s.discountRepo.GetByID(dc.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDiscountNotFound
	}
	dc.Code = strings.ToUpper(strings.TrimSpace(dc.Code))
	dc.UsedCount = existing.UsedCount
	return s.discountRepo.Update(dc)
}

// Delete soft deletes a code.
func (s *DiscountService) Delete(id uint) error {
	existing, err := s.discountRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDiscountNotFound
	}
	return s.discountRepo.Delete(id)
}

// Evaluate resolves a code and computes the discount for the given lines
// without redeeming anything. Used by the storefront preview and by checkout
// before it claims the use.
func (s *DiscountService) Evaluate(code string, lines []DiscountLine, now time.Time) (models.Money, *models.DiscountCode, error) {
	dc, err := s.discountRepo.GetByCode(code)
	if err != nil {
		return models.Money{}, nil, err
	}
	if dc == nil {
		return models.Money{}, nil, ErrDiscountNotFound
	}
	amount, err := computeDiscount(dc, lines, now)
	if err != nil {
		return models.Money{}, nil, err
	}
	return amount, dc, nil
}

// computeDiscount applies the code rules to cart lines. The amount never
// exceeds the eligible subtotal.
func computeDiscount(dc *models.DiscountCode, lines []DiscountLine, now time.Time) (models.Money, error) {
	if !dc.IsActive {
		return models.Money{}, ErrDiscountInvalid
	}
	if dc.StartsAt != nil && now.Before(*dc.StartsAt) {
		return models.Money{}, ErrDiscountInvalid
	}
	if dc.EndsAt != nil && now.After(*dc.EndsAt) {
		return models.Money{}, ErrDiscountInvalid
	}
	if dc.MaxUses != nil && dc.UsedCount >= *dc.MaxUses {
		return models.Money{}, ErrDiscountExhausted
	}

	total := decimal.Zero
	eligible := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
		if discountCovers(dc, line.ProductID, line.Category) {
			eligible = eligible.Add(line.Subtotal)
		}
	}
	if dc.MinOrderValue != nil && total.LessThan(dc.MinOrderValue.Decimal) {
		return models.Money{}, ErrDiscountNotApplied
	}
	if eligible.LessThanOrEqual(decimal.Zero) {
		return models.Money{}, ErrDiscountNotApplied
	}

	var amount decimal.Decimal
	switch dc.Type {
	case constants.DiscountTypePercentage:
		amount = eligible.Mul(dc.Value.Decimal).Div(decimal.NewFromInt(100))
		if dc.MaxDiscount != nil && amount.GreaterThan(dc.MaxDiscount.Decimal) {
			amount = dc.MaxDiscount.Decimal
		}
	case constants.DiscountTypeFixed:
		amount = dc.Value.Decimal
	default:
		return models.Money{}, ErrDiscountInvalid
	}
	if amount.GreaterThan(eligible) {
		amount = eligible
	}
	return models.NewMoneyFromDecimal(amount), nil
}

// discountCovers reports whether one line is inside the code's allow-lists.
// Empty lists mean the code covers everything.
func discountCovers(dc *models.DiscountCode, productID uint, category string) bool {
	if len(dc.ProductIDs) == 0 && len(dc.Categories) == 0 {
		return true
	}
	idStr := strconv.FormatUint(uint64(productID), 10)
	for _, allowed := range dc.ProductIDs {
		if allowed == idStr {
			return true
		}
	}
	for _, allowed := range dc.Categories {
		if strings.EqualFold(allowed, category) {
			return true
		}
	}
	return false
}
