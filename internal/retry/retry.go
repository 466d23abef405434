// Package retry re-runs failing operations with backoff.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy defines retry behavior.
type Policy struct {
	// MaxRetries is the number of attempts after the first (0 = no retry).
	MaxRetries int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration
	// Multiplier scales the delay after each retry.
	Multiplier float64
	// Jitter randomizes each delay between half and all of its value.
	Jitter bool
	// Retryable reports whether err should be retried. Nil retries every
	// error.
	Retryable func(err error) bool
}

// Exponential returns a policy doubling the delay after each retry.
func Exponential(maxRetries int) Policy {
	return Policy{
		MaxRetries:   maxRetries,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Linear returns a policy with a fixed delay between retries.
func Linear(maxRetries int, delay time.Duration) Policy {
	return Policy{
		MaxRetries:   maxRetries,
		InitialDelay: delay,
		MaxDelay:     delay,
		Multiplier:   1.0,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the retries
// are spent or ctx is done.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || p.MaxRetries <= 0 {
		return err
	}

	delay := p.InitialDelay
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		timer := time.NewTimer(p.wait(delay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err = fn(); err == nil {
			return nil
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", p.MaxRetries+1, err)
}

func (p Policy) wait(delay time.Duration) time.Duration {
	if !p.Jitter || delay <= 1 {
		return delay
	}
	half := delay / 2
	return half + rand.N(delay-half)
}
