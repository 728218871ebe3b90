package mailer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/circuitbreaker"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/cabinetrenov/renov-api/pkg/retry"
	"go.uber.org/zap"
)

const sendTimeout = 15 * time.Second

// Queue delivers mails on a single background worker so callers never wait on the provider.
// Enqueue never blocks: a full or closed queue drops the mail.
type Queue struct {
	sender  Sender
	breaker *circuitbreaker.Breaker
	policy  retry.Policy
	jobs    chan Message
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// QueueOption customizes a Queue.
type QueueOption func(*Queue)

// WithRetryPolicy overrides the retry policy of each delivery.
func WithRetryPolicy(p retry.Policy) QueueOption {
	return func(q *Queue) { q.policy = p }
}

// WithBreaker replaces the default mail circuit breaker.
func WithBreaker(b *circuitbreaker.Breaker) QueueOption {
	return func(q *Queue) { q.breaker = b }
}

// NewQueue starts the worker. size is the number of mails that may wait for delivery.
func NewQueue(sender Sender, size int, opts ...QueueOption) *Queue {
	if size <= 0 {
		size = 1
	}

	q := &Queue{
		sender: sender,
		policy: retry.MailPolicy(),
		jobs:   make(chan Message, size),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.breaker == nil {
		q.breaker = circuitbreaker.New("mail", circuitbreaker.MailSettings())
	}

	go q.run()
	return q
}

// Enqueue schedules a mail. It reports false when the mail was dropped.
func (q *Queue) Enqueue(msg Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.MailDeliveries.WithLabelValues("dropped").Inc()
		logger.Warn("Mail queue closed, dropping mail", zap.String("subject", msg.Subject))
		return false
	}

	select {
	case q.jobs <- msg:
		metrics.MailQueueDepth.Set(float64(len(q.jobs)))
		return true
	default:
		metrics.MailDeliveries.WithLabelValues("dropped").Inc()
		logger.Warn("Mail queue full, dropping mail", zap.String("subject", msg.Subject))
		return false
	}
}

// Close stops accepting mails and waits for queued ones to be delivered or for ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)

	for msg := range q.jobs {
		metrics.MailQueueDepth.Set(float64(len(q.jobs)))
		q.deliver(msg)
	}
}

func (q *Queue) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	err := q.policy.Do(ctx, "mail.send", func(ctx context.Context) error {
		err := q.breaker.Run(ctx, func(ctx context.Context) error {
			return q.sender.Send(ctx, msg)
		})
		if errors.Is(err, circuitbreaker.ErrRejected) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		metrics.MailDeliveries.WithLabelValues("failed").Inc()
		logger.Error("Failed to deliver mail",
			zap.Error(err),
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject))
		return
	}

	metrics.MailDeliveries.WithLabelValues("sent").Inc()
}
