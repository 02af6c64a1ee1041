package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"gorm.io/gorm"
)

// OrderMergeService folds several ready-to-ship orders of one customer into
// a single shipment. Only orders in "Sẵn sàng giao" with the same delivery
// phone and the same normalized delivery address are mergeable.
type OrderMergeService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.StatusHistoryRepository
}

// NewOrderMergeService creates the merge service.
func NewOrderMergeService(orderRepo repository.OrderRepository, historyRepo repository.StatusHistoryRepository) *OrderMergeService {
	return &OrderMergeService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
	}
}

// MergeGroup is one set of mergeable orders, oldest first.
type MergeGroup struct {
	Phone   string         `json:"phone"`
	Address string         `json:"address"`
	Orders  []models.Order `json:"orders"`
}

// Candidates scans ready-to-ship orders and returns every group of two or
// more sharing phone and delivery address.
func (s *OrderMergeService) Candidates() ([]MergeGroup, error) {
	orders, err := s.orderRepo.ListByProgress(constants.OrderProgressReadyToShip)
	if err != nil {
		return nil, err
	}
	byKey := map[string][]models.Order{}
	for _, order := range orders {
		key := mergeKey(mergePhone(&order), order.DeliveryAddress)
		byKey[key] = append(byKey[key], order)
	}
	keys := make([]string, 0, len(byKey))
	for key, members := range byKey {
		if len(members) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	groups := make([]MergeGroup, 0, len(keys))
	for _, key := range keys {
		members := byKey[key]
		groups = append(groups, MergeGroup{
			Phone:   mergePhone(&members[0]),
			Address: members[0].DeliveryAddress,
			Orders:  members,
		})
	}
	return groups, nil
}

// Merge folds the given orders into the earliest one. The survivor absorbs
// every item, tagged with its source order number, and the summed totals.
// Absorbed orders are cancelled with a note pointing at the survivor. The
// whole merge is one transaction.
func (s *OrderMergeService) Merge(orderIDs []uint, actor string) (*models.Order, error) {
	if len(orderIDs) < 2 {
		return nil, ErrMergeNotEligible
	}
	seen := map[uint]bool{}
	orders := make([]*models.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		if seen[id] {
			return nil, ErrMergeNotEligible
		}
		seen[id] = true
		order, err := s.orderRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		if order.OrderProgress != constants.OrderProgressReadyToShip {
			return nil, ErrMergeNotEligible
		}
		orders = append(orders, order)
	}
	key := mergeKey(mergePhone(orders[0]), orders[0].DeliveryAddress)
	for _, order := range orders[1:] {
		if mergeKey(mergePhone(order), order.DeliveryAddress) != key {
			return nil, ErrMergeNotEligible
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	survivor := orders[0]
	absorbed := orders[1:]

	items := append(models.OrderItemList{}, survivor.Items...)
	total := survivor.TotalPrice.Decimal
	surcharge := survivor.Surcharge.Decimal
	discount := survivor.DiscountAmount.Decimal
	for _, order := range absorbed {
		for _, item := range order.Items {
			item.SourceOrderNo = order.OrderNo
			items = append(items, item)
		}
		total = total.Add(order.TotalPrice.Decimal)
		surcharge = surcharge.Add(order.Surcharge.Decimal)
		discount = discount.Add(order.DiscountAmount.Decimal)
	}

	absorbedNos := make([]string, 0, len(absorbed))
	for _, order := range absorbed {
		absorbedNos = append(absorbedNos, order.OrderNo)
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		if err := orderRepo.UpdateFields(survivor.ID, map[string]interface{}{
			"items":           items,
			"total_price":     models.NewMoneyFromDecimal(total),
			"surcharge":       models.NewMoneyFromDecimal(surcharge),
			"discount_amount": models.NewMoneyFromDecimal(discount),
			"admin_note":      appendNote(survivor.AdminNote, "Đã gộp các đơn: "+strings.Join(absorbedNos, ", ")),
		}); err != nil {
			return err
		}
		for _, order := range absorbed {
			if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
				"order_progress": constants.OrderProgressCancelled,
				"admin_note":     appendNote(order.AdminNote, fmt.Sprintf("Đã gộp vào đơn %s", survivor.OrderNo)),
			}); err != nil {
				return err
			}
			if err := historyRepo.Append(&models.OrderStatusHistory{
				OrderID:  order.ID,
				OrderNo:  order.OrderNo,
				Field:    constants.HistoryFieldOrderProgress,
				OldValue: constants.OrderProgressReadyToShip,
				NewValue: constants.OrderProgressCancelled,
				Actor:    actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("orders_merged", "survivor", survivor.OrderNo, "absorbed", strings.Join(absorbedNos, ","), "actor", actor)
	return s.orderRepo.GetByID(survivor.ID)
}

// mergeKey normalizes phone and address for grouping. Addresses compare
// case insensitive with whitespace collapsed.
func mergeKey(phone, address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	return strings.TrimSpace(phone) + "|" + normalized
}

// mergePhone is the grouping phone: the delivery recipient's number. Orders
// without one fall back to the contact phone.
func mergePhone(order *models.Order) string {
	if phone := strings.TrimSpace(order.DeliveryPhone); phone != "" {
		return phone
	}
	return strings.TrimSpace(order.Phone)
}

func appendNote(existing, note string) string {
	if strings.TrimSpace(existing) == "" {
		return note
	}
	return existing + "\n" + note
}
