// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for the logging patterns used throughout entitymaker.
//
// Key features:
//   - JSON and text output formats
//   - Level parsing from configuration strings
//   - Context-aware logging
//
// Example usage:
//
//	logger, err := logging.New(os.Stderr, logging.FormatJSON, slog.LevelInfo)
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithLogger(ctx, logger)
//	logging.FromContext(ctx).Info("catalog loaded", slog.Int("entities", n))
package logging
