// Package watch reports changes to a single file using fsnotify.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Watcher emits the watched path each time the file is written or replaced.
// Events are held for one interval and every event arriving in that window
// folds into the same notification. Notifications are spaced at least one
// interval apart, and an unread notification is never duplicated.
type Watcher struct {
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a new file watcher. An interval of zero disables spacing.
func NewWatcher(logger *slog.Logger, interval time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Watcher{
		watcher:  w,
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
		logger:   logger,
	}, nil
}

// Watch starts monitoring path. The parent directory is watched so that
// editors which save by renaming a temporary file are seen as well. The
// returned channel is closed when ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan string, 1)

	go func() {
		defer close(changes)

		// fire is nil while no notification is scheduled.
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if fire == nil {
					fire = time.After(max(w.interval, w.limiter.Reserve().Delay()))
				}
			case <-fire:
				fire = nil
				select {
				case changes <- path:
				default:
					// a notification is already pending
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("file watcher error",
					slog.String("path", path),
					slog.Any("error", err))
			}
		}
	}()

	return changes, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
