package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedAdapter struct {
	errs  []error
	calls int
}

func (s *scriptedAdapter) Name() string { return "scripted" }

func (s *scriptedAdapter) Generate(ctx context.Context, req Request) (Response, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Response{}, s.errs[i]
	}
	return Response{Text: "ok"}, nil
}

func TestCircuitBreakerDeniesAfterRateLimits(t *testing.T) {
	inner := &scriptedAdapter{errs: []error{
		resilience.RateLimitError{Provider: "scripted"},
		resilience.RateLimitError{Provider: "scripted"},
	}}
	obs := metrics.NewMemoryObserver()
	a := NewCircuitBreakerAdapter(inner, resilience.NewCircuitBreaker(2, time.Hour))
	a.SetObserver(obs)

	for i := 0; i < 2; i++ {
		_, err := a.Generate(context.Background(), Request{})
		require.Error(t, err)
	}
	_, err := a.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, resilience.IsRateLimit(err))
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the provider")
	assert.Len(t, obs.Named(metrics.EventBreakerDenied), 1)
	assert.Len(t, obs.Named(metrics.EventRateLimit), 2)
}

func TestCircuitBreakerPassesThroughOtherErrors(t *testing.T) {
	inner := &scriptedAdapter{errs: []error{errors.New("network down")}}
	a := NewCircuitBreakerAdapter(inner, nil)
	_, err := a.Generate(context.Background(), Request{})
	assert.EqualError(t, err, "network down")
	resp, err := a.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, inner.calls)
}

func TestCircuitBreakerRecordsOpenTransition(t *testing.T) {
	inner := &scriptedAdapter{errs: []error{resilience.RateLimitError{Provider: "scripted"}}}
	obs := metrics.NewMemoryObserver()
	a := NewCircuitBreakerAdapter(inner, resilience.NewCircuitBreaker(1, time.Hour))
	a.SetObserver(obs)

	_, err := a.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, resilience.BreakerOpen, a.State())
	opened := obs.Named(metrics.EventBreakerOpen)
	require.Len(t, opened, 1)
	assert.Equal(t, "closed", opened[0].Tags["from"])
	assert.Empty(t, obs.Named(metrics.EventBreakerClose))
}
