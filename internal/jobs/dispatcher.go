package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrQueueFull is returned when the job buffer has no room left
	ErrQueueFull = errors.New("job queue is full")

	// ErrStopped is returned when a job is enqueued after Stop
	ErrStopped = errors.New("job dispatcher is stopped")
)

// Func is the unit of background work. The context carries the job ID and
// the per-job timeout.
type Func func(ctx context.Context) error

type job struct {
	id       string
	name     string
	fn       Func
	queuedAt time.Time
}

// Config holds configuration for the dispatcher
type Config struct {
	Workers   int           // Concurrent workers (default: 4)
	QueueSize int           // Buffered jobs before Enqueue fails (default: 100)
	Timeout   time.Duration // Per-job deadline (default: 30 seconds)
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		QueueSize: 100,
		Timeout:   30 * time.Second,
	}
}

// Stats is a snapshot of dispatcher counters
type Stats struct {
	Enqueued  uint64 `json:"enqueued"`
	Succeeded uint64 `json:"succeeded"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
	Pending   int    `json:"pending"`
}

// Dispatcher runs named side effects outside the request lifecycle. Callers
// get a job ID back immediately; outcomes are only visible in the logs.
type Dispatcher struct {
	logger  *slog.Logger
	queue   chan job
	workers int
	timeout time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	enqueued  atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewDispatcher creates a dispatcher; call Start before enqueueing
func NewDispatcher(logger *slog.Logger, cfg Config) *Dispatcher {
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	return &Dispatcher{
		logger:  logger.With("component", "jobs"),
		queue:   make(chan job, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.Timeout,
	}
}

// Start launches the worker goroutines
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	d.logger.Info("job dispatcher started",
		"workers", d.workers,
		"queue_size", cap(d.queue),
		"timeout", d.timeout,
	)
}

// Enqueue schedules fn under the given name and returns its job ID.
// Non-blocking: if the buffer is full the job is dropped with ErrQueueFull.
func (d *Dispatcher) Enqueue(name string, fn Func) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.dropped.Add(1)
		return "", ErrStopped
	}

	j := job{
		id:       uuid.NewString(),
		name:     name,
		fn:       fn,
		queuedAt: time.Now(),
	}

	select {
	case d.queue <- j:
		d.enqueued.Add(1)
		d.logger.Debug("job enqueued", "job_id", j.id, "job", name)
		return j.id, nil
	default:
		d.dropped.Add(1)
		d.logger.Warn("job dropped - queue full", "job_id", j.id, "job", name)
		return "", fmt.Errorf("%s: %w", name, ErrQueueFull)
	}
}

// Stop rejects new jobs, drains the queue and waits for in-flight jobs.
// Returns ctx.Err() if the deadline passes before the workers finish.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("job dispatcher stopped",
			"succeeded", d.succeeded.Load(),
			"failed", d.failed.Load(),
			"dropped", d.dropped.Load(),
		)
		return nil
	case <-ctx.Done():
		d.logger.Warn("job dispatcher stop timed out", "pending", len(d.queue))
		return ctx.Err()
	}
}

// Stats returns the current counters
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Enqueued:  d.enqueued.Load(),
		Succeeded: d.succeeded.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
		Pending:   len(d.queue),
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for j := range d.queue {
		d.execute(j)
	}
}

func (d *Dispatcher) execute(j job) {
	ctx, cancel := context.WithTimeout(WithJobID(context.Background(), j.id), d.timeout)
	defer cancel()

	logger := d.logger.With("job_id", j.id, "job", j.name)
	start := time.Now()

	err := safeCall(ctx, j.fn)
	duration := time.Since(start)

	if err != nil {
		d.failed.Add(1)
		logger.Error("job failed",
			"error", err,
			"duration", duration,
			"queued_for", start.Sub(j.queuedAt),
		)
		return
	}

	d.succeeded.Add(1)
	logger.Info("job completed",
		"duration", duration,
		"queued_for", start.Sub(j.queuedAt),
	)
}

func safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return fn(ctx)
}
