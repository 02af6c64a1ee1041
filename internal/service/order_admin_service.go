package service

import (
	"strings"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/repository"

	"gorm.io/gorm"
)

// OrderService is the back office view of orders: listing, status changes,
// notes and the customer facing tracking lookup. Every status write goes
// through the transition tables and leaves a history row in the same
// transaction.
type OrderService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.StatusHistoryRepository
	queueClient *queue.Client
}

// NewOrderService creates the order service.
func NewOrderService(orderRepo repository.OrderRepository, historyRepo repository.StatusHistoryRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		queueClient: queueClient,
	}
}

// List returns orders for the admin table.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// Get returns one order by id.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdatePaymentStatusInput is the admin payment status change.
type UpdatePaymentStatusInput struct {
	OrderID uint
	To      string
	Actor   string
}

// UpdatePaymentStatus moves the payment status along the transition table.
func (s *OrderService) UpdatePaymentStatus(input UpdatePaymentStatusInput) (*models.Order, error) {
	order, err := s.Get(input.OrderID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionPaymentStatus(order.PaymentStatus, input.To) {
		return nil, ErrInvalidTransition
	}
	old := order.PaymentStatus
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).UpdateFields(order.ID, map[string]interface{}{
			"payment_status": input.To,
		}); err != nil {
			return err
		}
		return s.historyRepo.WithTx(tx).Append(&models.OrderStatusHistory{
			OrderID:  order.ID,
			OrderNo:  order.OrderNo,
			Field:    constants.HistoryFieldPaymentStatus,
			OldValue: old,
			NewValue: input.To,
			Actor:    input.Actor,
		})
	})
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = input.To
	s.notifyStatusChange(order, constants.HistoryFieldPaymentStatus, input.To)
	logger.Infow("order_payment_status_changed", "order_no", order.OrderNo, "from", old, "to", input.To, "actor", input.Actor)
	return order, nil
}

// UpdateProgressInput is the admin fulfillment progress change. Provider and
// tracking are required when moving into shipping unless already set.
type UpdateProgressInput struct {
	OrderID          uint
	To               string
	ShippingProvider string
	TrackingCode     string
	Actor            string
}

// UpdateProgress moves the fulfillment progress along the transition table.
func (s *OrderService) UpdateProgress(input UpdateProgressInput) (*models.Order, error) {
	order, err := s.Get(input.OrderID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionProgress(order.OrderProgress, input.To) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"order_progress": input.To,
	}
	if input.To == constants.OrderProgressShipping {
		provider := strings.TrimSpace(input.ShippingProvider)
		tracking := strings.TrimSpace(input.TrackingCode)
		if provider == "" {
			provider = order.ShippingProvider
		}
		if tracking == "" {
			tracking = order.TrackingCode
		}
		if provider == "" || tracking == "" {
			return nil, ErrTrackingRequired
		}
		updates["shipping_provider"] = provider
		updates["tracking_code"] = tracking
		order.ShippingProvider = provider
		order.TrackingCode = tracking
	}

	old := order.OrderProgress
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).UpdateFields(order.ID, updates); err != nil {
			return err
		}
		return s.historyRepo.WithTx(tx).Append(&models.OrderStatusHistory{
			OrderID:  order.ID,
			OrderNo:  order.OrderNo,
			Field:    constants.HistoryFieldOrderProgress,
			OldValue: old,
			NewValue: input.To,
			Actor:    input.Actor,
		})
	})
	if err != nil {
		return nil, err
	}
	order.OrderProgress = input.To
	s.notifyStatusChange(order, constants.HistoryFieldOrderProgress, input.To)

	if input.To == constants.OrderProgressCompleted {
		if err := s.queueClient.EnqueueAffiliateConfirm(queue.AffiliateConfirmPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("affiliate_confirm_enqueue_failed", "order_no", order.OrderNo, "error", err)
		}
	}
	logger.Infow("order_progress_changed", "order_no", order.OrderNo, "from", old, "to", input.To, "actor", input.Actor)
	return order, nil
}

// UpdateDetailsInput carries the freely editable order fields.
type UpdateDetailsInput struct {
	OrderID          uint
	AdminNote        *string
	Surcharge        *models.Money
	ShippingProvider *string
	TrackingCode     *string
	ProofURLs        []string
}

// UpdateDetails writes note, surcharge, shipping and proof fields. No status
// fields pass through here.
func (s *OrderService) UpdateDetails(input UpdateDetailsInput) (*models.Order, error) {
	order, err := s.Get(input.OrderID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.AdminNote != nil {
		updates["admin_note"] = *input.AdminNote
	}
	if input.Surcharge != nil {
		updates["surcharge"] = *input.Surcharge
	}
	if input.ShippingProvider != nil {
		updates["shipping_provider"] = strings.TrimSpace(*input.ShippingProvider)
	}
	if input.TrackingCode != nil {
		updates["tracking_code"] = strings.TrimSpace(*input.TrackingCode)
	}
	if input.ProofURLs != nil {
		updates["proof_urls"] = models.StringArray(input.ProofURLs)
	}
	if len(updates) == 0 {
		return order, nil
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return nil, err
	}
	return s.Get(order.ID)
}

// History lists the status changes of one order, oldest first.
func (s *OrderService) History(orderID uint, page, pageSize int) ([]models.OrderStatusHistory, int64, error) {
	return s.historyRepo.ListByOrder(repository.HistoryListFilter{
		OrderID:  orderID,
		Page:     page,
		PageSize: pageSize,
	})
}

// Track is the customer lookup: order number plus the phone used at
// checkout. Returns the order with its status history.
func (s *OrderService) Track(orderNo, phone string) (*models.Order, []models.OrderStatusHistory, error) {
	orderNo = strings.TrimSpace(orderNo)
	phone = strings.TrimSpace(phone)
	if orderNo == "" || phone == "" {
		return nil, nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndPhone(orderNo, phone)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	history, _, err := s.historyRepo.ListByOrder(repository.HistoryListFilter{OrderID: order.ID, PageSize: 100})
	if err != nil {
		return nil, nil, err
	}
	return order, history, nil
}

// ListByPhone returns every order placed with a phone number, newest first.
func (s *OrderService) ListByPhone(phone string) ([]models.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrOrderNotFound
	}
	return s.orderRepo.ListByPhone(phone)
}

func (s *OrderService) notifyStatusChange(order *models.Order, field, newValue string) {
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID:  order.ID,
		Field:    field,
		NewValue: newValue,
	}); err != nil {
		logger.Warnw("order_status_email_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}
}
