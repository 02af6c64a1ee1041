package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/purinorder/purinorder/internal/feed"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/provider"
	"github.com/purinorder/purinorder/internal/queue"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles queued background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires the consumer into the asynq mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmEmail, c.handleOrderConfirmEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskFeedSyncPull, c.handleFeedSyncPull)
	mux.HandleFunc(queue.TaskFeedSyncPush, c.handleFeedSyncPush)
	mux.HandleFunc(queue.TaskProductExpiringCheck, c.handleProductExpiringCheck)
	mux.HandleFunc(queue.TaskAffiliateConfirm, c.handleAffiliateConfirm)
	mux.HandleFunc(queue.TaskAffiliateRecomputeAll, c.handleAffiliateRecomputeAll)
}

func (c *Consumer) handleOrderConfirmEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirm_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirm_email_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirm_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiver := strings.TrimSpace(order.Email)
	if receiver == "" {
		logger.Debugw("worker_order_confirm_email_skip_empty_receiver", "order_no", order.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderConfirmation(receiver, order); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_order_confirm_email_skip_disabled", "order_no", order.OrderNo)
			return nil
		}
		logger.Warnw("worker_order_confirm_email_send_failed", "order_no", order.OrderNo, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiver := strings.TrimSpace(order.Email)
	if receiver == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_no", order.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderStatusUpdate(receiver, order, payload.Field, payload.NewValue); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_order_status_email_skip_disabled", "order_no", order.OrderNo)
			return nil
		}
		logger.Warnw("worker_order_status_email_send_failed",
			"order_no", order.OrderNo,
			"field", payload.Field,
			"new_value", payload.NewValue,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleFeedSyncPull(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	count, err := c.ProductService.SyncFromFeed(ctx)
	if err != nil {
		if errors.Is(err, feed.ErrFeedNotConfigured) {
			logger.Debugw("worker_feed_sync_pull_skip_not_configured")
			return nil
		}
		logger.Warnw("worker_feed_sync_pull_failed", "error", err)
		return err
	}
	logger.Infow("worker_feed_sync_pull_done", "synced", count)
	return nil
}

func (c *Consumer) handleFeedSyncPush(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.FeedSyncPushPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_feed_sync_push_unmarshal_failed", "error", err)
		return err
	}
	if err := c.ProductService.PushToFeed(ctx, payload.ProductID); err != nil {
		logger.Warnw("worker_feed_sync_push_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleProductExpiringCheck(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	products, err := c.ProductService.ExpiringSoon(0)
	if err != nil {
		logger.Warnw("worker_product_expiring_check_failed", "error", err)
		return err
	}
	for _, product := range products {
		logger.Infow("worker_product_expiring_soon",
			"product_id", product.ID,
			"product_name", product.Name,
			"order_deadline", product.OrderDeadline,
		)
	}
	return nil
}

func (c *Consumer) handleAffiliateConfirm(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.AffiliateConfirmPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_affiliate_confirm_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	if err := c.AffiliateService.ConfirmForOrder(payload.OrderID); err != nil {
		logger.Warnw("worker_affiliate_confirm_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleAffiliateRecomputeAll(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	changes, err := c.AffiliateService.RecomputeRates()
	if err != nil {
		logger.Warnw("worker_affiliate_recompute_failed", "error", err)
		return err
	}
	logger.Infow("worker_affiliate_recompute_done", "changed", len(changes))
	return nil
}
