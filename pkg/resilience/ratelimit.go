package resilience

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitError is returned when a vendor asks us to slow down.
type RateLimitError struct {
	Provider string
	Message  string
	// RetryAfter is the vendor's hint, zero when none was sent.
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Provider != "":
		return e.Provider + ": rate limit"
	}
	return "rate limit"
}

func IsRateLimit(err error) bool {
	var rl RateLimitError
	return errors.As(err, &rl)
}

// FromResponse builds a RateLimitError from a 429 response, reading Retry-After
// in either its seconds or HTTP-date form.
func FromResponse(provider string, resp *http.Response) RateLimitError {
	e := RateLimitError{Provider: provider, Message: provider + ": " + resp.Status}
	raw := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if raw == "" {
		return e
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		e.RetryAfter = time.Duration(secs) * time.Second
		return e
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			e.RetryAfter = d
		}
	}
	return e
}
