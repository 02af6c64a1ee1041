package queue

import (
	"encoding/json"

	"github.com/purinorder/purinorder/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmEmail notifies the customer after checkout.
	TaskOrderConfirmEmail = constants.TaskOrderConfirmEmail
	// TaskOrderStatusEmail notifies the customer on status changes.
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskFeedSyncPull refreshes local products from the spreadsheet feed.
	TaskFeedSyncPull = constants.TaskFeedSyncPull
	// TaskFeedSyncPush uploads admin product edits back to the feed.
	TaskFeedSyncPush = constants.TaskFeedSyncPush
	// TaskProductExpiringCheck flags products whose order deadline is near.
	TaskProductExpiringCheck = constants.TaskProductExpiringCheck
	// TaskAffiliateConfirm confirms pending commissions of a completed order.
	TaskAffiliateConfirm = constants.TaskAffiliateConfirm
	// TaskAffiliateRecomputeAll recomputes tiered commission rates.
	TaskAffiliateRecomputeAll = constants.TaskAffiliateRecomputeAll
)

// OrderConfirmEmailPayload carries the order to confirm.
type OrderConfirmEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload carries the order and the changed field.
type OrderStatusEmailPayload struct {
	OrderID  uint   `json:"order_id"`
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
}

// FeedSyncPushPayload carries the product to push; zero pushes all.
type FeedSyncPushPayload struct {
	ProductID uint `json:"product_id"`
}

// AffiliateConfirmPayload carries the completed order.
type AffiliateConfirmPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderConfirmEmailTask builds the checkout confirmation email task.
func NewOrderConfirmEmailTask(payload OrderConfirmEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmEmail, body), nil
}

// NewOrderStatusEmailTask builds the status change email task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewFeedSyncPullTask builds the feed pull task.
func NewFeedSyncPullTask() *asynq.Task {
	return asynq.NewTask(TaskFeedSyncPull, nil)
}

// NewFeedSyncPushTask builds the feed push task.
func NewFeedSyncPushTask(payload FeedSyncPushPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFeedSyncPush, body), nil
}

// NewProductExpiringCheckTask builds the deadline sweep task.
func NewProductExpiringCheckTask() *asynq.Task {
	return asynq.NewTask(TaskProductExpiringCheck, nil)
}

// NewAffiliateConfirmTask builds the commission confirmation task.
func NewAffiliateConfirmTask(payload AffiliateConfirmPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAffiliateConfirm, body), nil
}

// NewAffiliateRecomputeAllTask builds the rate recompute task.
func NewAffiliateRecomputeAllTask() *asynq.Task {
	return asynq.NewTask(TaskAffiliateRecomputeAll, nil)
}
