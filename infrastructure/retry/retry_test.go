package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxAttempts int) Config {
	return Config{
		Enabled:       true,
		MaxAttempts:   maxAttempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	transient := errors.New("transient")
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(error) bool { return true }, func(context.Context) error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Do(context.Background(), fastConfig(5), func(error) bool { return false }, func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Do() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	transient := errors.New("still failing")
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(error) bool { return true }, func(context.Context) error {
		calls++
		return transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("Do() error = %v, want %v", err, transient)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoDisabledRunsOnce(t *testing.T) {
	calls := 0
	cfg := fastConfig(3)
	cfg.Enabled = false
	err := Do(context.Background(), cfg, func(error) bool { return true }, func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Minute
	cfg.JitterEnabled = false

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func(error) bool { return true }, func(context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Do() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do() did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

type hintedError struct {
	hint time.Duration
}

func (e *hintedError) Error() string { return "rate limited" }

func (e *hintedError) RetryDelayHint() (time.Duration, bool) { return e.hint, true }

func TestDoUsesDelayHint(t *testing.T) {
	cfg := fastConfig(2)
	cfg.InitialDelay = time.Hour // would hang without the hint
	cfg.MaxDelay = time.Hour
	cfg.JitterEnabled = false

	calls := 0
	start := time.Now()
	err := Do(context.Background(), cfg, func(error) bool { return true }, func(context.Context) error {
		calls++
		if calls == 1 {
			return &hintedError{hint: time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("elapsed = %v, hint was not used", elapsed)
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}
	if got := Backoff(1, cfg); got != 100*time.Millisecond {
		t.Errorf("Backoff(1) = %v, want 100ms", got)
	}
	if got := Backoff(2, cfg); got != 200*time.Millisecond {
		t.Errorf("Backoff(2) = %v, want 200ms", got)
	}
	if got := Backoff(10, cfg); got != time.Second {
		t.Errorf("Backoff(10) = %v, want cap 1s", got)
	}
	if got := Backoff(0, cfg); got != 0 {
		t.Errorf("Backoff(0) = %v, want 0", got)
	}
}

func TestBackoffJitterStaysInBounds(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
	for i := 0; i < 50; i++ {
		got := Backoff(1, cfg)
		if got < 80*time.Millisecond || got > 120*time.Millisecond {
			t.Fatalf("Backoff(1) = %v, want within [80ms, 120ms]", got)
		}
	}
}
