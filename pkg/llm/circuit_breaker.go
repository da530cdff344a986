package llm

import (
	"context"
	"sync"
	"time"

	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/resilience"
)

// CircuitBreakerAdapter stops calling a completion provider that keeps
// rate-limiting us. It never retries; a denied call fails fast with a
// RateLimitError so the turn reports llm_rate_limit.
type CircuitBreakerAdapter struct {
	inner   Adapter
	breaker *resilience.CircuitBreaker

	mu  sync.RWMutex
	obs metrics.Observer
}

func NewCircuitBreakerAdapter(inner Adapter, breaker *resilience.CircuitBreaker) *CircuitBreakerAdapter {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(3, 30*time.Second)
	}
	a := &CircuitBreakerAdapter{inner: inner, breaker: breaker}
	breaker.OnStateChange(a.onTransition)
	return a
}

func (a *CircuitBreakerAdapter) Name() string { return a.inner.Name() }

// SetObserver routes breaker transitions and denials to obs.
func (a *CircuitBreakerAdapter) SetObserver(obs metrics.Observer) {
	a.mu.Lock()
	a.obs = obs
	a.mu.Unlock()
}

func (a *CircuitBreakerAdapter) State() resilience.BreakerState { return a.breaker.State() }

func (a *CircuitBreakerAdapter) Generate(ctx context.Context, req Request) (Response, error) {
	if !a.breaker.Allow() {
		a.record(metrics.EventBreakerDenied, "")
		return Response{}, resilience.RateLimitError{Provider: a.Name(), Message: "completion provider degraded"}
	}
	resp, err := a.inner.Generate(ctx, req)
	if err != nil {
		if resilience.IsRateLimit(err) {
			a.record(metrics.EventRateLimit, "")
		}
		a.breaker.OnError(err)
		return Response{}, err
	}
	a.breaker.OnSuccess()
	return resp, nil
}

func (a *CircuitBreakerAdapter) onTransition(from, to resilience.BreakerState) {
	switch to {
	case resilience.BreakerOpen:
		a.record(metrics.EventBreakerOpen, from.String())
	case resilience.BreakerClosed:
		a.record(metrics.EventBreakerClose, from.String())
	}
}

func (a *CircuitBreakerAdapter) record(name, from string) {
	a.mu.RLock()
	obs := a.obs
	a.mu.RUnlock()
	if obs == nil {
		return
	}
	tags := map[string]string{"provider": a.inner.Name(), "component": "llm"}
	if from != "" {
		tags["from"] = from
	}
	obs.RecordEvent(metrics.MetricsEvent{Name: name, Time: time.Now(), Tags: tags})
}

var _ Adapter = (*CircuitBreakerAdapter)(nil)
