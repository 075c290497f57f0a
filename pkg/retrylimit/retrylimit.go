// Package retrylimit paces calls to a rate-limited API and retries the ones
// that fail transiently. The pace adapts: it slows down on 429 and 5xx
// responses and recovers gradually after a quiet period.
//
//	lim := retrylimit.NewLimiter(5, 1, 20)
//	err := retrylimit.Do(ctx, lim, retrylimit.Policy{}, func() error {
//		return s.ApplicationCommandDelete(appID, guildID, id)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// recovery is how long the limiter must go without a failure before it
// starts speeding up again.
const recovery = 10 * time.Second

// Limiter is a token bucket whose rate moves between min and max.
type Limiter struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	min, max rate.Limit
	lastHit  time.Time
}

// NewLimiter returns a limiter starting at initial requests per second,
// kept between lo and hi. Rates below one request per second are raised to one.
func NewLimiter(initial, lo, hi rate.Limit) *Limiter {
	lo = max(lo, 1)
	hi = max(hi, lo)
	initial = clamp(initial, lo, hi)
	return &Limiter{
		bucket: rate.NewLimiter(initial, burst(initial)),
		min:    lo,
		max:    hi,
	}
}

// Wait blocks until the next call may go out.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// Limit is the current rate in requests per second.
func (l *Limiter) Limit() rate.Limit {
	return l.bucket.Limit()
}

func (l *Limiter) succeeded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastHit) > recovery {
		l.set(l.bucket.Limit() + 1)
	}
}

func (l *Limiter) throttled() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastHit = time.Now()
	l.set(l.bucket.Limit() / 2)
}

func (l *Limiter) set(r rate.Limit) {
	r = clamp(r, l.min, l.max)
	if r == l.bucket.Limit() {
		return
	}
	l.bucket.SetLimit(r)
	l.bucket.SetBurst(burst(r))
}

// Permanent marks an error that must not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Policy controls how Do retries. Zero fields take the defaults.
type Policy struct {
	Attempts   int           // 4
	Backoff    time.Duration // 500ms, doubled after each failure
	MaxBackoff time.Duration // 10s
	// Retryable decides whether an error is worth another attempt.
	// Defaults to Transient.
	Retryable func(error) bool
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 4
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.Retryable == nil {
		p.Retryable = Transient
	}
	return p
}

// ErrExhausted is returned (wrapping the last failure) when every attempt failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Do calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts, or ctx is done. A nil limiter means calls are not paced.
func Do(ctx context.Context, lim *Limiter, p Policy, fn func() error) error {
	p = p.withDefaults()
	delay := p.Backoff

	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			if lim != nil {
				lim.succeeded()
			}
			return nil
		}

		var perm *Permanent
		if errors.As(err, &perm) {
			return perm.Err
		}
		if !p.Retryable(err) {
			return err
		}
		if lim != nil && Throttling(err) {
			lim.throttled()
		}
		if attempt == p.Attempts {
			break
		}

		wait := jitter(delay)
		log.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Retrying request")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay = min(delay*2, p.MaxBackoff)
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.Attempts, err)
}

// StatusCode extracts the HTTP status of a failed Discord REST call, or 0.
func StatusCode(err error) int {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Response != nil {
		return rerr.Response.StatusCode
	}
	return 0
}

// Throttling reports whether err says the server is overloaded: 429 or 5xx.
func Throttling(err error) bool {
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code >= 500 && code < 600
}

// Transient reports whether err is worth retrying. Throttling responses are;
// any other REST response (4xx) is final. Errors without a response
// (network failures) are retried.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if StatusCode(err) == 0 {
		return true
	}
	return Throttling(err)
}

// jitter adds up to 25% to d.
func jitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + rand.N(d/4)
}

func burst(r rate.Limit) int {
	return max(1, int(r))
}

func clamp(r, lo, hi rate.Limit) rate.Limit {
	return min(max(r, lo), hi)
}
