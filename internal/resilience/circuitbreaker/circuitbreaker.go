// Package circuitbreaker wraps sony/gobreaker with ratio-based tripping.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"entitymaker/internal/resilience/retry"
)

// Config controls when the breaker opens and how it recovers.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the closed-state window after which counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0 to 1) that opens the breaker.
	FailureThreshold float64

	// MinRequests is the number of calls needed before the ratio counts.
	MinRequests uint32

	// IsSuccessful decides whether an error counts as a failure. Errors it
	// accepts are still returned to the caller. Nil counts every error.
	IsSuccessful func(err error) bool
}

// FeedFetchConfig returns the settings used for remote feed downloads.
func FeedFetchConfig() Config {
	return Config{
		Name:             "feed-fetch",
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      5,
		IsSuccessful:     isHealthy,
	}
}

// isHealthy treats a server that answered with a final client error such as
// 404 as up. The request was wrong, not the feed host.
func isHealthy(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *retry.HTTPError
	return errors.As(err, &httpErr) && !retry.IsRetryable(err)
}

// CircuitBreaker rejects calls while its target keeps failing.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a closed breaker. State changes are logged at warn level on
// logger, or on slog.Default when logger is nil.
func New(cfg Config, logger *slog.Logger) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn unless the breaker is open, in which case it returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
