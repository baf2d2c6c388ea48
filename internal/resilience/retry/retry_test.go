package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"entitymaker/internal/observability/logging"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(), logging.Discard(), func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: 503, URL: "https://example.com/feed"}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithBackoff_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	cause := &HTTPError{StatusCode: 500, URL: "https://example.com/feed"}

	err := WithBackoff(context.Background(), fastConfig(), logging.Discard(), func() error {
		attempts++
		return cause
	})

	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "max retry attempts (3) exceeded")
}

func TestWithBackoff_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	cause := &HTTPError{StatusCode: 404, URL: "https://example.com/feed"}

	err := WithBackoff(context.Background(), fastConfig(), nil, func() error {
		attempts++
		return cause
	})

	assert.Equal(t, 1, attempts)
	assert.Same(t, cause, err)
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.InitialDelay = time.Hour

	err := WithBackoff(ctx, cfg, logging.Discard(), func() error {
		cancel()
		return syscall.ECONNREFUSED
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorContains(t, err, "retry aborted")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"server error", &HTTPError{StatusCode: 502}, true},
		{"too many requests", &HTTPError{StatusCode: 429}, true},
		{"request timeout", &HTTPError{StatusCode: 408}, true},
		{"not found", &HTTPError{StatusCode: 404}, false},
		{"plain error", errors.New("malformed feed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 503, URL: "https://example.com/feed"}
	assert.Equal(t, "GET https://example.com/feed: HTTP 503 Service Unavailable", err.Error())
}

func TestAddJitter(t *testing.T) {
	d := 100 * time.Millisecond

	assert.Equal(t, d, addJitter(d, 0))
	for range 20 {
		got := addJitter(d, 0.5)
		assert.GreaterOrEqual(t, got, d)
		assert.LessOrEqual(t, got, 150*time.Millisecond)
	}
}
