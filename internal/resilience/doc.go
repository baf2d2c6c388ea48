// Package resilience groups the fault tolerance helpers used when entitymaker
// downloads remote feeds.
//
//   - circuitbreaker stops calling a failing feed host for a while
//   - retry repeats transient failures with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig(), logger)
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), logger, func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return download(ctx, feedURL)
//	    })
//	    return err
//	})
package resilience
