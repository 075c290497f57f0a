package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func restError(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code}}
}

var fast = Policy{Attempts: 3, Backoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

func TestClassifiers(t *testing.T) {
	assert.Equal(t, 429, StatusCode(restError(429)))
	assert.Equal(t, 0, StatusCode(errors.New("dial tcp: timeout")))

	assert.True(t, Throttling(restError(http.StatusTooManyRequests)))
	assert.True(t, Throttling(restError(http.StatusBadGateway)))
	assert.False(t, Throttling(restError(http.StatusForbidden)))

	assert.True(t, Transient(restError(503)))
	assert.True(t, Transient(errors.New("connection reset")))
	assert.False(t, Transient(restError(404)))
	assert.False(t, Transient(context.Canceled))
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fast, func() error {
		calls++
		if calls < 3 {
			return restError(500)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnFinalErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fast, func() error {
		calls++
		return restError(http.StatusForbidden)
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))

	calls = 0
	boom := errors.New("boom")
	err = Do(context.Background(), nil, fast, func() error {
		calls++
		return &Permanent{Err: boom}
	})
	assert.Equal(t, 1, calls)
	assert.Same(t, boom, err)
}

func TestDoExhausted(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fast, func() error {
		calls++
		return restError(502)
	})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 502, StatusCode(err))
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 5, Backoff: time.Hour}

	calls := 0
	err := Do(ctx, nil, p, func() error {
		calls++
		cancel()
		return errors.New("flaky")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestLimiterAdapts(t *testing.T) {
	lim := NewLimiter(8, 2, 10)
	assert.Equal(t, rate.Limit(8), lim.Limit())

	lim.throttled()
	assert.Equal(t, rate.Limit(4), lim.Limit())
	lim.throttled()
	lim.throttled()
	assert.Equal(t, rate.Limit(2), lim.Limit(), "never below the floor")

	lim.succeeded()
	assert.Equal(t, rate.Limit(2), lim.Limit(), "no recovery right after a hit")

	lim.lastHit = time.Now().Add(-time.Minute)
	for range 20 {
		lim.succeeded()
	}
	assert.Equal(t, rate.Limit(10), lim.Limit(), "never above the ceiling")
}

func TestLimiterBounds(t *testing.T) {
	lim := NewLimiter(50, 0, 5)
	assert.Equal(t, rate.Limit(5), lim.Limit())

	lim = NewLimiter(0, 0, 0)
	assert.Equal(t, rate.Limit(1), lim.Limit())
}

func TestDoThrottlesLimiter(t *testing.T) {
	lim := NewLimiter(10, 1, 10)
	calls := 0
	err := Do(context.Background(), lim, fast, func() error {
		calls++
		if calls == 1 {
			return restError(http.StatusTooManyRequests)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, rate.Limit(5), lim.Limit())
}
