package resilience

import (
	"sync"
	"time"
)

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// CircuitBreaker trips after consecutive rate-limit failures. After the
// cooldown a single probe call is let through; its outcome closes or reopens
// the breaker. Other errors never count against the provider.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time
	probing   bool
	now       func() time.Time
	onChange  func(from, to BreakerState)
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// OnStateChange registers fn to run after every transition, outside the lock.
func (c *CircuitBreaker) OnStateChange(fn func(from, to BreakerState)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *CircuitBreaker) State() BreakerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Allow reports whether a call may go to the provider.
func (c *CircuitBreaker) Allow() bool {
	c.mu.Lock()
	var ok bool
	from := c.state
	switch c.state {
	case BreakerClosed:
		ok = true
	case BreakerOpen:
		if c.now().Sub(c.openedAt) >= c.cooldown {
			c.state = BreakerHalfOpen
			c.probing = true
			ok = true
		}
	case BreakerHalfOpen:
		if !c.probing {
			c.probing = true
			ok = true
		}
	}
	c.unlockAndNotify(from)
	return ok
}

func (c *CircuitBreaker) OnSuccess() {
	c.mu.Lock()
	from := c.state
	c.failures = 0
	c.probing = false
	c.state = BreakerClosed
	c.unlockAndNotify(from)
}

func (c *CircuitBreaker) OnError(err error) {
	c.mu.Lock()
	from := c.state
	if !IsRateLimit(err) {
		c.probing = false
		c.unlockAndNotify(from)
		return
	}
	c.failures++
	if c.state == BreakerHalfOpen || c.failures >= c.threshold {
		c.state = BreakerOpen
		c.openedAt = c.now()
		c.probing = false
	}
	c.unlockAndNotify(from)
}

func (c *CircuitBreaker) unlockAndNotify(from BreakerState) {
	to, fn := c.state, c.onChange
	c.mu.Unlock()
	if fn != nil && from != to {
		fn(from, to)
	}
}
