package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService turns a cart into orders. One checkout produces one order
// per distinct master value among the items; stock decrements, discount
// redemption and commission bookkeeping all commit in a single transaction
// with the order rows.
type CheckoutService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	discountRepo  repository.DiscountCodeRepository
	affiliateRepo repository.AffiliateRepository
	affOrderRepo  repository.AffiliateOrderRepository
	catalog       *CatalogService
	discounts     *DiscountService
	queueClient   *queue.Client
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, discountRepo repository.DiscountCodeRepository, affiliateRepo repository.AffiliateRepository, affOrderRepo repository.AffiliateOrderRepository, catalog *CatalogService, discounts *DiscountService, queueClient *queue.Client) *CheckoutService {
	return &CheckoutService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		discountRepo:  discountRepo,
		affiliateRepo: affiliateRepo,
		affOrderRepo:  affOrderRepo,
		catalog:       catalog,
		discounts:     discounts,
		queueClient:   queueClient,
	}
}

// CheckoutItem is one cart line as submitted by the storefront.
type CheckoutItem struct {
	ProductID uint   `json:"product_id"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// CheckoutInput is the storefront checkout form.
type CheckoutInput struct {
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	Social          string         `json:"social"`
	DeliveryName    string         `json:"delivery_name"`
	DeliveryPhone   string         `json:"delivery_phone"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryNote    string         `json:"delivery_note"`
	Items           []CheckoutItem `json:"items"`
	PaymentType     string         `json:"payment_type"`
	PaymentMethod   string         `json:"payment_method"`
	DiscountCode    string         `json:"discount_code"`
	AffiliateCode   string         `json:"affiliate_code"`
	ProofURLs       []string       `json:"proof_urls"`
}

// CheckoutQuote is the priced preview of a checkout, shown before the
// customer confirms.
type CheckoutQuote struct {
	Subtotal       models.Money `json:"subtotal"`
	DiscountAmount models.Money `json:"discount_amount"`
	Total          models.Money `json:"total"`
	GroupCount     int          `json:"group_count"`
}

// resolvedLine is one cart line with its product snapshot attached.
type resolvedLine struct {
	item     models.OrderItem
	product  *models.Product
	variant  *models.ProductVariant
	subtotal decimal.Decimal
}

// Quote prices a cart without writing anything.
func (s *CheckoutService) Quote(ctx context.Context, input CheckoutInput) (*CheckoutQuote, error) {
	lines, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.subtotal)
	}
	discount := models.Money{}
	if strings.TrimSpace(input.DiscountCode) != "" {
		discount, _, err = s.discounts.Evaluate(input.DiscountCode, discountLines(lines), time.Now())
		if err != nil {
			return nil, err
		}
	}
	groups := map[string]bool{}
	for _, line := range lines {
		groups[line.item.Master] = true
	}
	total := subtotal.Sub(discount.Decimal)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return &CheckoutQuote{
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		DiscountAmount: discount,
		Total:          models.NewMoneyFromDecimal(total),
		GroupCount:     len(groups),
	}, nil
}

// Checkout creates the orders. Returns every created order, in master group
// order.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) ([]*models.Order, error) {
	if strings.TrimSpace(input.Phone) == "" || len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}
	if strings.TrimSpace(input.DeliveryName) == "" ||
		strings.TrimSpace(input.DeliveryPhone) == "" ||
		strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, ErrInvalidOrderItem
	}
	if input.PaymentType != constants.PaymentTypeFull && input.PaymentType != constants.PaymentTypeDeposit {
		return nil, ErrInvalidOrderItem
	}

	lines, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var discountTotal models.Money
	var appliedCode *models.DiscountCode
	if strings.TrimSpace(input.DiscountCode) != "" {
		discountTotal, appliedCode, err = s.discounts.Evaluate(input.DiscountCode, discountLines(lines), now)
		if err != nil {
			return nil, err
		}
	}

	var affiliate *models.Affiliate
	if strings.TrimSpace(input.AffiliateCode) != "" {
		affiliate, err = s.affiliateRepo.GetByReferralCode(input.AffiliateCode)
		if err != nil {
			return nil, err
		}
		if affiliate != nil && affiliate.Status != constants.AffiliateStatusApproved {
			affiliate = nil
		}
	}

	groups := groupByMaster(lines)
	paymentStatus := constants.PaymentStatusAwaitingConfirm
	if input.PaymentType == constants.PaymentTypeDeposit {
		paymentStatus = constants.PaymentStatusDepositConfirming
	}

	var orders []*models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		if appliedCode != nil {
			claimed, err := s.discountRepo.WithTx(tx).ClaimUse(appliedCode.ID)
			if err != nil {
				return err
			}
			if claimed == 0 {
				return ErrDiscountExhausted
			}
		}

		remaining := discountTotal.Decimal
		for _, group := range groups {
			orderNo, err := s.generateOrderNo(orderRepo, now)
			if err != nil {
				return err
			}

			items := make(models.OrderItemList, 0, len(group))
			groupTotal := decimal.Zero
			for _, line := range group {
				items = append(items, line.item)
				groupTotal = groupTotal.Add(line.subtotal)

				if line.variant != nil {
					if _, err := productRepo.DecrementVariantStock(line.variant.ID, line.item.Quantity); err != nil {
						return err
					}
				} else {
					if _, err := productRepo.DecrementProductStock(line.item.ProductID, line.item.Quantity); err != nil {
						return err
					}
				}
			}

			groupDiscount := remaining
			if groupDiscount.GreaterThan(groupTotal) {
				groupDiscount = groupTotal
			}
			remaining = remaining.Sub(groupDiscount)

			order := &models.Order{
				OrderNo:         orderNo,
				Phone:           strings.TrimSpace(input.Phone),
				Email:           strings.TrimSpace(input.Email),
				Social:          strings.TrimSpace(input.Social),
				DeliveryName:    strings.TrimSpace(input.DeliveryName),
				DeliveryPhone:   strings.TrimSpace(input.DeliveryPhone),
				DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
				DeliveryNote:    strings.TrimSpace(input.DeliveryNote),
				Items:           items,
				TotalPrice:      models.NewMoneyFromDecimal(groupTotal.Sub(groupDiscount)),
				PaymentStatus:   paymentStatus,
				OrderProgress:   constants.OrderProgressProcessing,
				PaymentType:     input.PaymentType,
				PaymentMethod:   input.PaymentMethod,
				ProofURLs:       models.StringArray(input.ProofURLs),
				DiscountAmount:  models.NewMoneyFromDecimal(groupDiscount),
			}
			if appliedCode != nil {
				order.DiscountCode = appliedCode.Code
			}
			if affiliate != nil {
				order.AffiliateCode = affiliate.ReferralCode
			}
			if err := orderRepo.Create(order); err != nil {
				return err
			}

			if affiliate != nil {
				commission := order.TotalPrice.Decimal.Mul(decimal.NewFromFloat(affiliate.CommissionRate)).Round(0)
				if err := s.affOrderRepo.WithTx(tx).Create(&models.AffiliateOrder{
					AffiliateID: affiliate.ID,
					OrderID:     order.ID,
					OrderNo:     order.OrderNo,
					OrderTotal:  order.TotalPrice,
					Commission:  models.NewMoneyFromDecimal(commission),
					Status:      constants.AffiliateOrderStatusPending,
				}); err != nil {
					return err
				}
				if err := s.affiliateRepo.WithTx(tx).UpdateFields(affiliate.ID, map[string]interface{}{
					"pending_earnings": gorm.Expr("pending_earnings + ?", commission),
					"order_count":      gorm.Expr("order_count + 1"),
				}); err != nil {
					return err
				}
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := s.queueClient.EnqueueOrderConfirmEmail(queue.OrderConfirmEmailPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("order_confirm_email_enqueue_failed", "order_no", order.OrderNo, "error", err)
		}
	}
	logger.Infow("checkout_done", "phone", input.Phone, "orders", len(orders))
	return orders, nil
}

// resolveLines loads products for every cart line and snapshots names and
// prices. Feed-only products are materialized locally first so their stock
// can be tracked.
func (s *CheckoutService) resolveLines(ctx context.Context, items []CheckoutItem) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		product, err := s.materializeProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Hidden() {
			return nil, ErrProductUnavailable
		}
		if product.OrderDeadline != nil && time.Now().After(*product.OrderDeadline) {
			return nil, ErrProductUnavailable
		}

		price := product.Price
		var variant *models.ProductVariant
		if strings.TrimSpace(item.Variant) != "" {
			variant, err = s.productRepo.GetVariantByName(product.ID, strings.TrimSpace(item.Variant))
			if err != nil {
				return nil, err
			}
			if variant == nil {
				return nil, ErrVariantNotFound
			}
			price = variant.Price
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		orderItem := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Variant:     strings.TrimSpace(item.Variant),
			Quantity:    item.Quantity,
			Price:       price,
			Master:      product.Master,
			Image:       image,
		}
		lines = append(lines, resolvedLine{
			item:     orderItem,
			product:  product,
			variant:  variant,
			subtotal: price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return lines, nil
}

// materializeProduct returns the local row, importing the feed row on first
// sight so stock decrements have somewhere to land.
func (s *CheckoutService) materializeProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}
	if s.catalog == nil {
		return nil, ErrProductNotFound
	}
	fromFeed, err := s.catalog.ProductDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	variants := fromFeed.Variants
	fromFeed.Variants = nil
	if err := s.productRepo.Upsert(fromFeed); err != nil {
		return nil, err
	}
	if len(variants) > 0 {
		if err := s.productRepo.ReplaceVariants(fromFeed.ID, variants); err != nil {
			return nil, err
		}
	}
	return s.productRepo.GetByID(id)
}

// generateOrderNo builds PO<yymmdd>-<nnn> and retries on the rare suffix
// collision within one day.
func (s *CheckoutService) generateOrderNo(orderRepo repository.OrderRepository, now time.Time) (string, error) {
	prefix := "PO" + now.Format("060102")
	for attempt := 0; attempt < 8; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(1000))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s-%03d", prefix, n.Int64())
		count, err := orderRepo.CountByOrderNo(candidate)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrOrderUpdateFailed
}

// groupByMaster partitions lines by master value, groups ordered by the
// master key so checkout output is deterministic.
func groupByMaster(lines []resolvedLine) [][]resolvedLine {
	byMaster := map[string][]resolvedLine{}
	for _, line := range lines {
		byMaster[line.item.Master] = append(byMaster[line.item.Master], line)
	}
	masters := make([]string, 0, len(byMaster))
	for master := range byMaster {
		masters = append(masters, master)
	}
	sort.Strings(masters)
	groups := make([][]resolvedLine, 0, len(masters))
	for _, master := range masters {
		groups = append(groups, byMaster[master])
	}
	return groups
}

func discountLines(lines []resolvedLine) []DiscountLine {
	out := make([]DiscountLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, DiscountLine{
			ProductID: line.item.ProductID,
			Category:  line.product.Category,
			Subtotal:  line.subtotal,
		})
	}
	return out
}
