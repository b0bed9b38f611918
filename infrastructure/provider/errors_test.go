package provider

import (
	"errors"
	"testing"
	"time"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &Error{Provider: "openai", StatusCode: 429}, true},
		{"server error", &Error{Provider: "openai", StatusCode: 503}, true},
		{"transport failure", &Error{Provider: "openai", Err: errors.New("connection reset")}, true},
		{"bad request", &Error{Provider: "openai", StatusCode: 400}, false},
		{"unauthorized", &Error{Provider: "openai", StatusCode: 401}, false},
		{"permanent", Permanent(errors.New("malformed response")), false},
		{"unclassified", errors.New("dial tcp: timeout"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorRetryDelayHint(t *testing.T) {
	withHint := &Error{Provider: "openrouter", StatusCode: 429, RetryAfter: 2 * time.Second}
	if hint, ok := withHint.RetryDelayHint(); !ok || hint != 2*time.Second {
		t.Errorf("RetryDelayHint() = %v, %v, want 2s, true", hint, ok)
	}
	withoutHint := &Error{Provider: "openrouter", StatusCode: 429}
	if _, ok := withoutHint.RetryDelayHint(); ok {
		t.Error("RetryDelayHint() ok = true, want false")
	}
}

func TestPermanentUnwraps(t *testing.T) {
	base := errors.New("unparseable")
	err := Permanent(base)
	if !errors.Is(err, base) {
		t.Error("Permanent() lost the wrapped error")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) != nil")
	}
}

func TestErrorMessageIncludesProviderAndStatus(t *testing.T) {
	err := &Error{Provider: "openai", StatusCode: 500, Err: errors.New("internal")}
	want := "provider openai: status 500: internal"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
