package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrRejected is returned when the breaker refuses a call without running it
var ErrRejected = errors.New("circuit breaker rejected the call")

// Settings tune when a breaker opens and how long it stays open
type Settings struct {
	Probes      uint32        // calls let through while half-open
	Window      time.Duration // closed-state counting window
	Cooldown    time.Duration // open-state duration before probing again
	MinRequests uint32        // calls in the window before the ratio is considered
	TripRatio   float64       // failure ratio that opens the breaker
}

// MailSettings suits a transactional mail provider: a handful of failed sends
// in a minute stops hammering it for half a minute.
func MailSettings() Settings {
	return Settings{
		Probes:      1,
		Window:      time.Minute,
		Cooldown:    30 * time.Second,
		MinRequests: 3,
		TripRatio:   0.6,
	}
}

// Breaker guards one downstream dependency
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New creates a closed breaker and publishes its state under name
func New(name string, s Settings) *Breaker {
	b := &Breaker{name: name}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.Probes,
		Interval:    s.Window,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.TripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	metrics.BreakerState.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))
	return b
}

// Run calls fn unless the breaker is open. A refusal wraps ErrRejected.
func (b *Breaker) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s is %s", ErrRejected, b.name, b.cb.State())
	}
	return err
}

// Open reports whether calls are currently refused
func (b *Breaker) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
