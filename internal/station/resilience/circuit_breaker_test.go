package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldnotes/internal/station/resilience"
)

func testBreakerConfig() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 1,
	}
}

func failingOp() error {
	return errors.New("remote failure")
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", testBreakerConfig())
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failingOp))
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	require.Error(t, cb.Execute(ctx, failingOp))
	assert.Equal(t, resilience.StateOpen, cb.GetState())

	err := cb.Execute(ctx, func() error {
		t.Fatal("operation must not run while the breaker is open")
		return nil
	})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", testBreakerConfig())
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failingOp))
	require.Error(t, cb.Execute(ctx, failingOp))
	require.Equal(t, resilience.StateOpen, cb.GetState())

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	assert.Equal(t, resilience.StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureTripsAgain(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", testBreakerConfig())
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failingOp))
	require.Error(t, cb.Execute(ctx, failingOp))

	time.Sleep(30 * time.Millisecond)

	require.Error(t, cb.Execute(ctx, failingOp))
	assert.Equal(t, resilience.StateOpen, cb.GetState())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", testBreakerConfig())
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failingOp))
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	require.Error(t, cb.Execute(ctx, failingOp))

	assert.Equal(t, resilience.StateClosed, cb.GetState(),
		"an interleaved success must reset the failure count")
}
