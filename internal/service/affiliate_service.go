package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"gorm.io/gorm"
)

// Commission rate tiers by confirmed order count.
const (
	affiliateBaseRate   = 0.05
	affiliateMidRate    = 0.07
	affiliateTopRate    = 0.10
	affiliateMidOrders  = 10
	affiliateTopOrders  = 50
	referralCodeLength  = 8
	referralCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// AffiliateService manages referral partners and their commission ledger.
type AffiliateService struct {
	affiliateRepo repository.AffiliateRepository
	affOrderRepo  repository.AffiliateOrderRepository
	orderRepo     repository.OrderRepository
}

// NewAffiliateService creates the affiliate service.
func NewAffiliateService(affiliateRepo repository.AffiliateRepository, affOrderRepo repository.AffiliateOrderRepository, orderRepo repository.OrderRepository) *AffiliateService {
	return &AffiliateService{
		affiliateRepo: affiliateRepo,
		affOrderRepo:  affOrderRepo,
		orderRepo:     orderRepo,
	}
}

// RegisterInput is the public affiliate sign up form.
type RegisterInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	SocialLink  string `json:"social_link"`
	BankName    string `json:"bank_name"`
	BankAccount string `json:"bank_account"`
	BankHolder  string `json:"bank_holder"`
}

// Register creates a pending affiliate with a fresh referral code. One
// registration per phone number.
func (s *AffiliateService) Register(input RegisterInput) (*models.Affiliate, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, ErrAffiliateNotFound
	}
	existing, err := s.affiliateRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAffiliateExists
	}
	code, err := s.generateReferralCode()
	if err != nil {
		return nil, err
	}
	affiliate := &models.Affiliate{
		Name:           name,
		Phone:          phone,
		Email:          strings.TrimSpace(input.Email),
		SocialLink:     strings.TrimSpace(input.SocialLink),
		ReferralCode:   code,
		CommissionRate: affiliateBaseRate,
		BankName:       strings.TrimSpace(input.BankName),
		BankAccount:    strings.TrimSpace(input.BankAccount),
		BankHolder:     strings.TrimSpace(input.BankHolder),
		Status:         constants.AffiliateStatusPending,
	}
	if err := s.affiliateRepo.Create(affiliate); err != nil {
		return nil, err
	}
	logger.Infow("affiliate_registered", "affiliate_id", affiliate.ID, "referral_code", code)
	return affiliate, nil
}

// List returns affiliates for the admin table.
func (s *AffiliateService) List(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	return s.affiliateRepo.List(filter)
}

// Get returns one affiliate by id.
func (s *AffiliateService) Get(id uint) (*models.Affiliate, error) {
	affiliate, err := s.affiliateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

var allowedAffiliateTransitions = map[string]map[string]bool{
	constants.AffiliateStatusPending: {
		constants.AffiliateStatusApproved: true,
		constants.AffiliateStatusRejected: true,
	},
	constants.AffiliateStatusApproved: {
		constants.AffiliateStatusSuspended: true,
	},
	constants.AffiliateStatusSuspended: {
		constants.AffiliateStatusApproved: true,
	},
}

// Moderate moves an affiliate account between statuses.
func (s *AffiliateService) Moderate(id uint, status, note string) (*models.Affiliate, error) {
	affiliate, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !allowedAffiliateTransitions[affiliate.Status][status] {
		return nil, ErrInvalidTransition
	}
	updates := map[string]interface{}{"status": status}
	if strings.TrimSpace(note) != "" {
		updates["admin_note"] = strings.TrimSpace(note)
	}
	if err := s.affiliateRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	logger.Infow("affiliate_moderated", "affiliate_id", id, "from", affiliate.Status, "to", status)
	return s.Get(id)
}

// UpdateProfileInput carries the manually editable affiliate fields.
type UpdateProfileInput struct {
	AffiliateID    uint
	CommissionRate *float64
	AdminNote      *string
}

// UpdateProfile lets an admin override the commission rate or the note.
// A manual rate sticks until the next recompute.
func (s *AffiliateService) UpdateProfile(input UpdateProfileInput) (*models.Affiliate, error) {
	affiliate, err := s.Get(input.AffiliateID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.CommissionRate != nil {
		if *input.CommissionRate < 0 || *input.CommissionRate > 1 {
			return nil, ErrInvalidCommissionRate
		}
		updates["commission_rate"] = *input.CommissionRate
	}
	if input.AdminNote != nil {
		updates["admin_note"] = strings.TrimSpace(*input.AdminNote)
	}
	if len(updates) == 0 {
		return affiliate, nil
	}
	if err := s.affiliateRepo.UpdateFields(affiliate.ID, updates); err != nil {
		return nil, err
	}
	logger.Infow("affiliate_profile_updated", "affiliate_id", affiliate.ID)
	return s.Get(affiliate.ID)
}

// ConfirmForOrder marks the commission of a completed order as confirmed.
// Safe to call more than once; only a pending record moves.
func (s *AffiliateService) ConfirmForOrder(orderID uint) error {
	record, err := s.affOrderRepo.GetByOrderID(orderID)
	if err != nil {
		return err
	}
	if record == nil || record.Status != constants.AffiliateOrderStatusPending {
		return nil
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.affOrderRepo.WithTx(tx).UpdateStatus(record.ID, constants.AffiliateOrderStatusConfirmed); err != nil {
			return err
		}
		return s.affiliateRepo.WithTx(tx).UpdateFields(record.AffiliateID, map[string]interface{}{
			"total_earnings": gorm.Expr("total_earnings + ?", record.Commission.Decimal),
		})
	})
}

// PayCommission settles every confirmed commission of one affiliate in a
// single transaction. With nothing confirmed it pays zero and changes
// nothing, so calling it twice is safe.
func (s *AffiliateService) PayCommission(affiliateID uint) (models.Money, error) {
	affiliate, err := s.Get(affiliateID)
	if err != nil {
		return models.Money{}, err
	}
	var paid models.Money
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		affOrderRepo := s.affOrderRepo.WithTx(tx)
		sum, err := affOrderRepo.SumCommission(affiliate.ID, constants.AffiliateOrderStatusConfirmed)
		if err != nil {
			return err
		}
		if sum.Decimal.IsZero() {
			return nil
		}
		moved, err := affOrderRepo.UpdateStatusBulk(affiliate.ID, constants.AffiliateOrderStatusConfirmed, constants.AffiliateOrderStatusPaid)
		if err != nil {
			return err
		}
		if moved == 0 {
			return nil
		}
		if err := s.affiliateRepo.WithTx(tx).UpdateFields(affiliate.ID, map[string]interface{}{
			"pending_earnings": gorm.Expr("pending_earnings - ?", sum.Decimal),
			"paid_earnings":    gorm.Expr("paid_earnings + ?", sum.Decimal),
		}); err != nil {
			return err
		}
		paid = sum
		return nil
	})
	if err != nil {
		return models.Money{}, err
	}
	if paid.Decimal.IsZero() {
		logger.Infow("affiliate_commission_nothing_to_pay", "affiliate_id", affiliateID)
		return paid, nil
	}
	logger.Infow("affiliate_commission_paid", "affiliate_id", affiliateID, "amount", paid.String())
	return paid, nil
}

// RateChange is one affiliate's commission rate move from a recompute run.
type RateChange struct {
	AffiliateID uint    `json:"affiliate_id"`
	Name        string  `json:"name"`
	OldRate     float64 `json:"old_rate"`
	NewRate     float64 `json:"new_rate"`
}

// RecomputeRates re-tiers every approved affiliate by confirmed order count
// and returns the changes for the admin view.
func (s *AffiliateService) RecomputeRates() ([]RateChange, error) {
	affiliates, err := s.affiliateRepo.ListAll()
	if err != nil {
		return nil, err
	}
	changes := make([]RateChange, 0)
	for i := range affiliates {
		affiliate := &affiliates[i]
		if affiliate.Status != constants.AffiliateStatusApproved {
			continue
		}
		rate := tierRate(affiliate.OrderCount)
		if rate == affiliate.CommissionRate {
			continue
		}
		if err := s.affiliateRepo.UpdateFields(affiliate.ID, map[string]interface{}{
			"commission_rate": rate,
		}); err != nil {
			return changes, err
		}
		changes = append(changes, RateChange{
			AffiliateID: affiliate.ID,
			Name:        affiliate.Name,
			OldRate:     affiliate.CommissionRate,
			NewRate:     rate,
		})
		logger.Infow("affiliate_rate_changed", "affiliate_id", affiliate.ID, "rate", rate)
	}
	return changes, nil
}

// Orders lists commission records for the admin detail view.
func (s *AffiliateService) Orders(filter repository.AffiliateOrderListFilter) ([]models.AffiliateOrder, int64, error) {
	return s.affOrderRepo.List(filter)
}

func tierRate(orderCount int) float64 {
	switch {
	case orderCount >= affiliateTopOrders:
		return affiliateTopRate
	case orderCount >= affiliateMidOrders:
		return affiliateMidRate
	default:
		return affiliateBaseRate
	}
}

func (s *AffiliateService) generateReferralCode() (string, error) {
	for attempt := 0; attempt < 8; attempt++ {
		buf := make([]byte, referralCodeLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeCharset))))
			if err != nil {
				return "", err
			}
			buf[i] = referralCodeCharset[n.Int64()]
		}
		code := string(buf)
		existing, err := s.affiliateRepo.GetByReferralCode(code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", ErrAffiliateExists
}
