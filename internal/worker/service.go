package worker

import (
	"context"
	"errors"
	"time"

	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	feedSyncInterval      = 15 * time.Minute
	expiringCheckInterval = time.Hour
	rateRecomputeInterval = 24 * time.Hour
)

// Service runs the asynq consumer plus the periodic task producers.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the asynq server until Stop is called.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.QueueClient.Enabled() {
		go s.runPeriodicEnqueueLoop(ctx, "feed_sync_pull", feedSyncInterval, s.consumer.QueueClient.EnqueueFeedSyncPull)
		go s.runPeriodicEnqueueLoop(ctx, "product_expiring_check", expiringCheckInterval, s.consumer.QueueClient.EnqueueProductExpiringCheck)
		go s.runPeriodicEnqueueLoop(ctx, "affiliate_recompute", rateRecomputeInterval, s.consumer.QueueClient.EnqueueAffiliateRecomputeAll)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the asynq server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runPeriodicEnqueueLoop enqueues one task per interval so the work runs
// through the asynq mux with its retry policy.
func (s *Service) runPeriodicEnqueueLoop(ctx context.Context, name string, interval time.Duration, enqueue func(...asynq.Option) error) {
	runOnce := func() {
		if err := enqueue(); err != nil {
			logger.Warnw("worker_periodic_enqueue_failed", "task", name, "error", err)
			return
		}
		logger.Debugw("worker_periodic_enqueued", "task", name)
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
