package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/walloflove/wol-server/internal/config"
	"github.com/walloflove/wol-server/internal/logger"
	"github.com/walloflove/wol-server/internal/ratelimit"
	"github.com/walloflove/wol-server/internal/task"
)

// TaskQueueHandle wraps the tracking queue with shutdown capability.
type TaskQueueHandle struct {
	*task.Queue
}

// Shutdown implements do.Shutdownable. Queued increments get
// shutdownTimeout to land before they are abandoned.
func (h *TaskQueueHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Stop(ctx)
}

// ProvideTaskQueue provides the background queue for engagement increments.
func ProvideTaskQueue(i do.Injector) (*TaskQueueHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	// Queued increments write to the store; depending on it keeps the
	// store open until the queue has drained.
	_ = do.MustInvoke[*StoreHandle](i)

	q := task.New(task.Config{
		Workers:     cfg.Tracking.Workers,
		QueueSize:   cfg.Tracking.QueueSize,
		TaskTimeout: cfg.Tracking.TaskTimeout,
	}, log.Component("tasks"))
	q.Start()

	return &TaskQueueHandle{Queue: q}, nil
}

// TrackLimiterHandle wraps the tracking rate limiter.
type TrackLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *TrackLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideTrackLimiter provides the per-client, per-widget tracking limiter.
func ProvideTrackLimiter(i do.Injector) (*TrackLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &TrackLimiterHandle{
		KeyedRateLimiter: ratelimit.PerMinute(cfg.Tracking.RatePerMinute, cfg.Tracking.Burst),
	}, nil
}
