// Package tracing provides OpenTelemetry spans for entitymaker operations.
//
// Spans go to the global TracerProvider. None is installed by default, so
// tracing costs nothing until an embedding program registers one.
//
// Example usage:
//
//	ctx, span := tracing.Start(ctx, "record.Build", attribute.String("entity", name))
//	defer func() { tracing.End(span, err) }()
package tracing
