package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_PassesResultThrough(t *testing.T) {
	b := New("test-pass", MailSettings())

	require.NoError(t, b.Run(context.Background(), func(context.Context) error { return nil }))

	boom := errors.New("boom")
	assert.ErrorIs(t, b.Run(context.Background(), func(context.Context) error { return boom }), boom)
	assert.False(t, b.Open())
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := New("test-mail", MailSettings())
	boom := errors.New("provider down")

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Run(context.Background(), func(context.Context) error { return boom }), boom)
	}
	require.True(t, b.Open())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.BreakerState.WithLabelValues("test-mail")))

	called := false
	err := b.Run(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "test-mail is open")
	assert.False(t, called)
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	s := MailSettings()
	s.Cooldown = 5 * time.Millisecond
	b := New("test-probe", s)
	boom := errors.New("provider down")

	for i := 0; i < 3; i++ {
		_ = b.Run(context.Background(), func(context.Context) error { return boom }) //nolint:errcheck
	}
	require.True(t, b.Open())

	require.Eventually(t, func() bool {
		return b.Run(context.Background(), func(context.Context) error { return nil }) == nil
	}, time.Second, 5*time.Millisecond)
	assert.False(t, b.Open())
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.BreakerState.WithLabelValues("test-probe")))
}
