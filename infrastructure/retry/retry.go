// Package retry implements a reusable retry policy: bounded attempts,
// exponential backoff with optional jitter, a caller-supplied predicate that
// decides which errors are worth retrying, and delay hints from errors that
// know better than the computed backoff (e.g. a Retry-After header).
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config controls one retry policy.
type Config struct {
	Enabled       bool
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterEnabled bool
}

// DefaultConfig retries up to 3 times with a doubling delay.
var DefaultConfig = Config{
	Enabled:       true,
	MaxAttempts:   3,
	InitialDelay:  500 * time.Millisecond,
	MaxDelay:      8 * time.Second,
	BackoffFactor: 2.0,
	JitterEnabled: true,
}

// DelayHinter is implemented by errors that carry an explicit wait time,
// such as rate-limit responses with a Retry-After header. The hint replaces
// the computed backoff for that attempt.
type DelayHinter interface {
	RetryDelayHint() (time.Duration, bool)
}

// Backoff computes the delay before the attempt following the given one
// (1-based). The delay grows by BackoffFactor per attempt, is capped at
// MaxDelay, and gets +/-20% jitter when enabled.
func Backoff(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		jitterFactor := 0.8 + rand.Float64()*0.4
		delay = delay * jitterFactor
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Do runs fn until it succeeds, the error is not retryable, attempts run
// out, or the context is done. The last error is returned unchanged.
func Do(ctx context.Context, config Config, retryable func(error) bool, fn func(ctx context.Context) error) error {
	if !config.Enabled {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if retryable == nil || !retryable(err) || attempt == config.MaxAttempts {
			break
		}

		delay := Backoff(attempt, config)
		var hinter DelayHinter
		if errors.As(err, &hinter) {
			if hint, ok := hinter.RetryDelayHint(); ok {
				delay = hint
			}
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}

	return lastErr
}
