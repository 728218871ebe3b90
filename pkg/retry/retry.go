package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"go.uber.org/zap"
)

// Policy describes how often and how patiently an operation is retried
type Policy struct {
	Attempts  int           // total calls, the first one included
	BaseDelay time.Duration // wait before the second call
	MaxDelay  time.Duration
	Factor    float64 // growth of the wait between calls
	Jitter    bool    // spread each wait by up to 25% either way
}

// MailPolicy is used for calls to the transactional mail provider
func MailPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  4 * time.Second,
		Factor:    2,
		Jitter:    true,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, the policy runs out or ctx ends.
func (p Policy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("Operation succeeded after retry",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
			}
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return permanent.err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		wait := p.backoff(attempt)
		metrics.MailSendRetries.WithLabelValues(operation).Inc()
		logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("attempts", attempts),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
}

// backoff returns the wait after the given (1-based) failed attempt
func (p Policy) backoff(attempt int) time.Duration {
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}

	wait := float64(p.BaseDelay) * math.Pow(factor, float64(attempt-1))
	if p.MaxDelay > 0 && wait > float64(p.MaxDelay) {
		wait = float64(p.MaxDelay)
	}

	if p.Jitter {
		spread := wait * 0.25
		//nolint:gosec // G404: jitter does not need crypto/rand
		wait += rand.Float64()*2*spread - spread
	}

	return time.Duration(wait)
}
