package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entitymaker/internal/observability/logging"
	"entitymaker/internal/resilience/retry"
)

func testConfig() Config {
	return Config{
		Name:             "test-feed",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig(), nil)

	assert.Equal(t, "test-feed", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestExecute_PassesResult(t *testing.T) {
	cb := New(testConfig(), logging.Discard())

	got, err := cb.Execute(func() (interface{}, error) { return []byte("<rss/>"), nil })

	require.NoError(t, err)
	assert.Equal(t, []byte("<rss/>"), got)
}

func TestExecute_OpensAfterFailures(t *testing.T) {
	cb := New(testConfig(), logging.Discard())
	boom := errors.New("HTTP 503")

	for range 2 {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called, "open breaker must not call through")
}

func TestExecute_RecoversAfterTimeout(t *testing.T) {
	cb := New(testConfig(), logging.Discard())
	for range 2 {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("down") })
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestFeedFetchConfig_IgnoresClientErrors(t *testing.T) {
	cfg := FeedFetchConfig()
	cfg.MinRequests = 2
	cb := New(cfg, logging.Discard())
	notFound := &retry.HTTPError{StatusCode: 404, URL: "https://blog.example.com/missing.xml"}

	for range 10 {
		_, err := cb.Execute(func() (interface{}, error) { return nil, notFound })
		assert.ErrorIs(t, err, notFound, "the error still reaches the caller")
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	unavailable := &retry.HTTPError{StatusCode: 503, URL: "https://blog.example.com/feed.xml"}
	for range 30 {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, unavailable })
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
