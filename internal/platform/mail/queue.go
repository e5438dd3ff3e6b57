package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"taskmanager/internal/feature/users/usecase"
	"taskmanager/internal/shared/ratelimiter"
)

var (
	ErrQueueFull    = errors.New("mail queue is full")
	ErrQueueStopped = errors.New("mail queue is not running")
)

// QueueConfig holds mail queue configuration.
type QueueConfig struct {
	Workers        int
	Size           int
	MaxRetries     int
	BaseRetryDelay time.Duration
	MaxRetryDelay  time.Duration
	SendTimeout    time.Duration
}

// DefaultQueueConfig returns the default queue configuration.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Workers:        2,
		Size:           100,
		MaxRetries:     3,
		BaseRetryDelay: time.Second,
		MaxRetryDelay:  30 * time.Second,
		SendTimeout:    15 * time.Second,
	}
}

// Queue delivers messages on a pool of background workers.
// Enqueueing never blocks: a full queue drops the message with ErrQueueFull.
type Queue struct {
	config   QueueConfig
	sender   Sender
	throttle ratelimiter.Waiter
	jobs     chan Message
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.RWMutex
	running  bool
}

var _ usecase.Notifier = (*Queue)(nil)

// NewQueue creates a stopped queue. throttle may be nil.
func NewQueue(cfg QueueConfig, sender Sender, throttle ratelimiter.Waiter) *Queue {
	def := DefaultQueueConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.BaseRetryDelay <= 0 {
		cfg.BaseRetryDelay = def.BaseRetryDelay
	}
	if cfg.MaxRetryDelay <= 0 {
		cfg.MaxRetryDelay = def.MaxRetryDelay
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	return &Queue{config: cfg, sender: sender, throttle: throttle}
}

// Start launches the workers.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return fmt.Errorf("mail queue is already running")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.jobs = make(chan Message, q.config.Size)
	q.running = true

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			q.run(workerCtx, id, q.jobs)
		}(i + 1)
	}

	slog.Info("mail queue started", "workers", q.config.Workers, "size", q.config.Size)
	return nil
}

// Stop closes the queue and waits for queued messages to be delivered.
// When ctx ends first the workers are cancelled and ctx.Err() is returned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		slog.Info("mail queue drained")
		return nil
	case <-ctx.Done():
		q.cancel()
		slog.Warn("mail queue stopped before draining", "pending", len(q.jobs))
		return ctx.Err()
	}
}

// Enqueue schedules msg for delivery.
func (q *Queue) Enqueue(msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return ErrQueueStopped
	}

	select {
	case q.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) SendWelcome(_ context.Context, email, name string) error {
	return q.Enqueue(WelcomeMessage(email, name))
}

func (q *Queue) SendCancelation(_ context.Context, email, name string) error {
	return q.Enqueue(CancelationMessage(email, name))
}

func (q *Queue) run(ctx context.Context, id int, jobs <-chan Message) {
	for msg := range jobs {
		if err := q.deliver(ctx, msg); err != nil {
			slog.Error("mail delivery failed", "worker", id, "to", msg.To, "subject", msg.Subject, "error", err)
		}
	}
}

// deliver sends msg, retrying with exponential backoff up to MaxRetries times.
func (q *Queue) deliver(ctx context.Context, msg Message) error {
	var err error
	for attempt := 0; attempt <= q.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := q.retryDelay(attempt)
			slog.Warn("retrying mail", "to", msg.To, "attempt", attempt, "delay", delay, "error", err)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		if q.throttle != nil {
			if err := q.throttle.Wait(ctx); err != nil {
				return err
			}
		}

		sendCtx, cancel := context.WithTimeout(ctx, q.config.SendTimeout)
		err = q.sender.Send(sendCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
	}
	return err
}

// retryDelay is BaseRetryDelay * 2^(attempt-1), capped at MaxRetryDelay.
func (q *Queue) retryDelay(attempt int) time.Duration {
	delay := float64(q.config.BaseRetryDelay) * math.Pow(2, float64(attempt-1))
	if time.Duration(delay) > q.config.MaxRetryDelay {
		return q.config.MaxRetryDelay
	}
	return time.Duration(delay)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
