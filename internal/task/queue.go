// Package task runs fire-and-forget work on a bounded background queue.
//
// Callers submit and move on: Submit never blocks and never reports the
// outcome. Failures are logged here and go no further.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Func is a unit of background work.
type Func func(ctx context.Context) error

// Submitter is the narrow interface producers depend on.
type Submitter interface {
	Submit(name string, fn Func) bool
}

// Config controls queue sizing.
type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// Stats is a snapshot of queue counters.
type Stats struct {
	Depth     int   `json:"depth"`
	Submitted int64 `json:"submitted"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
	// Rejected counts work the producer refused before submitting, such
	// as rate-limited increments.
	Rejected int64 `json:"rejected"`
}

type job struct {
	name string
	fn   Func
}

// Queue is a fixed pool of workers draining a bounded channel.
type Queue struct {
	logger *slog.Logger
	cfg    Config

	tasks chan job

	// Worker management
	ctx    context.Context //nolint:containedctx // Cancelled only when Stop gives up waiting
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool

	submitted atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
}

var _ Submitter = (*Queue)(nil)

// New creates a queue. Workers are not running until Start.
func New(cfg Config, logger *slog.Logger) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		logger: logger,
		cfg:    cfg,
		tasks:  make(chan job, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker pool. Calling it more than once is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true

	q.logger.Info("starting task workers",
		slog.Int("workers", q.cfg.Workers),
		slog.Int("queue_size", q.cfg.QueueSize),
	)

	for i := range q.cfg.Workers {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Submit enqueues fn without waiting. It returns false when the task was
// dropped because the queue is full or already stopped.
func (q *Queue) Submit(name string, fn Func) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.stopped {
		q.dropped.Add(1)
		q.logger.Debug("task dropped, queue stopped", slog.String("task", name))
		return false
	}

	select {
	case q.tasks <- job{name: name, fn: fn}:
		q.submitted.Add(1)
		return true
	default:
		q.dropped.Add(1)
		q.logger.Warn("task dropped, queue full", slog.String("task", name))
		return false
	}
}

// Reject records a task the producer decided not to submit, so the work
// that never ran still shows up in Stats.
func (q *Queue) Reject(name, reason string) {
	q.rejected.Add(1)
	q.logger.Debug("task rejected", slog.String("task", name), slog.String("reason", reason))
}

// Stop stops accepting work and waits for queued tasks to finish.
// If ctx ends first, running tasks are cancelled and ctx.Err() is returned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	close(q.tasks)
	started := q.started
	q.mu.Unlock()

	if !started {
		q.cancel()
		if n := len(q.tasks); n > 0 {
			q.logger.Warn("task queue stopped before start, discarding tasks", slog.Int("count", n))
		}
		return nil
	}

	q.logger.Info("stopping task queue", slog.Int("pending", len(q.tasks)))

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		q.logger.Info("task queue stopped")
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return fmt.Errorf("task queue drain: %w", ctx.Err())
	}
}

// Stats returns current counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Depth:     len(q.tasks),
		Submitted: q.submitted.Load(),
		Dropped:   q.dropped.Load(),
		Failed:    q.failed.Load(),
		Rejected:  q.rejected.Load(),
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()

	q.logger.Debug("task worker started", slog.Int("worker_id", id))

	for j := range q.tasks {
		q.run(j)
	}

	q.logger.Debug("task worker stopping", slog.Int("worker_id", id))
}

func (q *Queue) run(j job) {
	ctx, cancel := context.WithTimeout(q.ctx, q.cfg.TaskTimeout)
	defer cancel()

	start := time.Now()
	err := safeCall(ctx, j.fn)
	if err != nil {
		q.failed.Add(1)
		q.logger.Warn("background task failed",
			slog.String("task", j.name),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return
	}

	q.logger.Debug("background task done",
		slog.String("task", j.name),
		slog.Duration("elapsed", time.Since(start)),
	)
}

var errPanic = errors.New("task panicked")

func safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return fn(ctx)
}
