package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	getErr      error
	setErr      error
	deleteErr   error
	getCalls    int
	setCalls    int
	deleteCalls int
}

func (s *stubCache) Get(context.Context, string) (*domain.Product, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &domain.Product{ID: "abc", Name: "Widget"}, nil
}

func (s *stubCache) Set(context.Context, *domain.Product) error {
	s.setCalls++
	return s.setErr
}

func (s *stubCache) Delete(context.Context, string) error {
	s.deleteCalls++
	return s.deleteErr
}

func TestBreakerCache_PassesThrough(t *testing.T) {
	t.Parallel()

	stub := &stubCache{}
	b := NewBreakerCache(stub, DefaultBreakerSettings(), nil)

	p, err := b.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.NoError(t, b.Set(context.Background(), p))
	assert.NoError(t, b.Delete(context.Background(), "abc"))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerCache_MissesDoNotTrip(t *testing.T) {
	t.Parallel()

	stub := &stubCache{getErr: ErrCacheMiss}
	b := NewBreakerCache(stub, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 5; i++ {
		_, err := b.Get(context.Background(), "abc")
		assert.ErrorIs(t, err, ErrCacheMiss)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 5, stub.getCalls)
}

func TestBreakerCache_OpensOnFailures(t *testing.T) {
	t.Parallel()

	stub := &stubCache{getErr: errors.New("connection refused"), setErr: errors.New("connection refused")}
	b := NewBreakerCache(stub, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.Get(ctx, "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCacheMiss)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss, "open breaker degrades to a miss")
	assert.Equal(t, 2, stub.getCalls, "open breaker must not reach redis")

	assert.NoError(t, b.Set(ctx, &domain.Product{ID: "abc"}))
	assert.Equal(t, 0, stub.setCalls)

	assert.ErrorIs(t, b.Delete(ctx, "abc"), gobreaker.ErrOpenState)
}

func TestBreakerCache_RetriesFailedDeleteBeforeServing(t *testing.T) {
	t.Parallel()

	stub := &stubCache{getErr: errors.New("connection refused")}
	b := NewBreakerCache(stub, BreakerSettings{ConsecutiveFailures: 1, OpenTimeout: 20 * time.Millisecond}, nil)
	ctx := context.Background()

	_, err := b.Get(ctx, "abc")
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, b.State())

	require.ErrorIs(t, b.Delete(ctx, "abc"), gobreaker.ErrOpenState)
	assert.Equal(t, 0, stub.deleteCalls)

	// Redis is back; the stale entry is still stored there.
	stub.getErr = nil
	require.Eventually(t, func() bool {
		return b.State() == gobreaker.StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	getsBefore := stub.getCalls
	_, err = b.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss, "entry with a pending delete must not be served")
	assert.Equal(t, getsBefore, stub.getCalls)
	assert.Equal(t, 1, stub.deleteCalls)

	p, err := b.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
}

func TestBreakerCache_PendingDeleteSurvivesFailedRetry(t *testing.T) {
	t.Parallel()

	stub := &stubCache{deleteErr: errors.New("connection refused")}
	b := NewBreakerCache(stub, BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: time.Minute}, nil)
	ctx := context.Background()

	require.Error(t, b.Delete(ctx, "abc"))

	for i := 0; i < 2; i++ {
		_, err := b.Get(ctx, "abc")
		assert.ErrorIs(t, err, ErrCacheMiss)
	}
	assert.Equal(t, 0, stub.getCalls)
	assert.Equal(t, 3, stub.deleteCalls)

	stub.deleteErr = nil
	_, err := b.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = b.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.getCalls)
}
