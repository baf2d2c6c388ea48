package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"entitymaker/internal/domain/entity"
	"entitymaker/internal/resilience/circuitbreaker"
	"entitymaker/internal/resilience/retry"
)

const (
	userAgent = "entitymaker"

	// maxFeedSize bounds a downloaded feed body.
	maxFeedSize = 10 << 20
)

// Fetcher downloads feed documents over HTTP with retry and a circuit breaker.
type Fetcher struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	logger  *slog.Logger
}

// NewFetcher creates a fetcher using client for requests.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig(), logger),
		retry:   retry.FeedFetchConfig(),
		logger:  logger,
	}
}

// Fetch returns the body of feedURL. Transient failures are retried; a
// breaker left open by earlier failures rejects the call at once.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	u, err := url.Parse(feedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid feed URL %q", feedURL)
	}

	var body []byte
	err = retry.WithBackoff(ctx, f.retry, f.logger, func() error {
		res, err := f.breaker.Execute(func() (interface{}, error) {
			return f.get(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				f.logger.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", f.breaker.State().String()))
			}
			return err
		}
		body = res.([]byte)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	f.logger.Debug("feed fetched",
		slog.String("url", feedURL),
		slog.Int("bytes", len(body)))
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, URL: feedURL}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxFeedSize {
		return nil, fmt.Errorf("feed larger than %d bytes", maxFeedSize)
	}
	return body, nil
}

// ImportURL downloads feedURL with f and imports it.
func (im *Importer) ImportURL(ctx context.Context, f *Fetcher, feedURL string) ([]entity.BlogPost, error) {
	body, err := f.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, bytes.NewReader(body))
}
