// Package utils provides retry and log-hygiene helpers shared across the
// engine.
package utils

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig defines bounded exponential backoff parameters.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig returns the standard retry configuration used by the
// completion client.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

func (rc RetryConfig) newExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialDelay
	b.MaxInterval = rc.MaxDelay
	b.Multiplier = rc.Multiplier
	if !rc.Jitter {
		b.RandomizationFactor = 0
	}
	b.MaxElapsedTime = 0 // bounded by attempt count, not wall clock
	return b
}

// Permanent marks err as non-retryable; RetryWithContext stops immediately
// and returns it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// RetryWithContext runs operation under bounded exponential backoff,
// honouring ctx between attempts. A context cancellation is returned as-is
// so callers can tell an operator stop apart from a transport failure.
func RetryWithContext(ctx context.Context, operation func() error, config RetryConfig) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(config.newExponentialBackOff(), uint64(config.MaxRetries)),
		ctx,
	)

	err := backoff.Retry(operation, b)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// IsRetryableStatus reports whether an HTTP status code is worth retrying
// (429 or any 5xx).
func IsRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= 500 && statusCode <= 599)
}

// RetryAfter parses a Retry-After header value in seconds, falling back to
// def when absent or malformed.
func RetryAfter(h http.Header, def time.Duration) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return def
	}
	var secs int
	if _, err := fmt.Sscanf(v, "%d", &secs); err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
