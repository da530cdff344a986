package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	calls := 0
	err := NewRetryPolicy(3, time.Millisecond).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryPolicyDoesNotRetryRateLimit(t *testing.T) {
	calls := 0
	err := NewRetryPolicy(3, time.Millisecond).Do(context.Background(), func(context.Context) error {
		calls++
		return RateLimitError{Provider: "google"}
	})
	assert.True(t, IsRateLimit(err))
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := NewRetryPolicy(3, time.Millisecond).Do(ctx, func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestCircuitBreakerOpensOnRateLimits(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)
	cb.OnError(errors.New("not a rate limit"))
	assert.True(t, cb.Allow())
	cb.OnError(RateLimitError{})
	cb.OnError(RateLimitError{})
	assert.False(t, cb.Allow())
	cb.OnSuccess()
	assert.True(t, cb.Allow())
}

func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	clock := time.Unix(0, 0)
	cb := NewCircuitBreaker(1, time.Minute)
	cb.now = func() time.Time { return clock }
	var transitions []string
	cb.OnStateChange(func(from, to BreakerState) {
		transitions = append(transitions, from.String()+">"+to.String())
	})

	cb.OnError(RateLimitError{})
	assert.Equal(t, BreakerOpen, cb.State())
	assert.False(t, cb.Allow())

	clock = clock.Add(time.Minute)
	assert.True(t, cb.Allow(), "first call after cooldown probes")
	assert.False(t, cb.Allow(), "only one probe at a time")

	cb.OnError(RateLimitError{})
	assert.Equal(t, BreakerOpen, cb.State(), "failed probe reopens")

	clock = clock.Add(time.Minute)
	assert.True(t, cb.Allow())
	cb.OnSuccess()
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, []string{
		"closed>open", "open>half_open", "half_open>open",
		"open>half_open", "half_open>closed",
	}, transitions)
}

func TestFromResponseReadsRetryAfter(t *testing.T) {
	resp := &http.Response{Status: "429 Too Many Requests", Header: http.Header{}}
	resp.Header.Set("Retry-After", "7")
	rl := FromResponse("google", resp)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.Equal(t, "google: 429 Too Many Requests", rl.Error())

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, FromResponse("google", resp).RetryAfter)
}
