// Package record reads field documents (YAML or JSON mappings of field name to
// value) and applies them to any builder, converting each raw value to the
// type its field declares.
package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"entitymaker/internal/builder"
	"entitymaker/internal/observability/logging"
	"entitymaker/internal/observability/tracing"
	"entitymaker/internal/schema"
)

// Document maps field names to raw decoded values.
type Document map[string]any

// ErrEmptyDocument indicates that the input held no mapping.
var ErrEmptyDocument = errors.New("empty record document")

// Decode reads one YAML document. JSON input is accepted as a YAML subset.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// DecodeFile reads a document from path.
func DecodeFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Apply sets every field of doc on target, in sorted key order. Conversion
// and assignment errors are collected and returned joined; fields that could
// be set remain set.
func Apply(ctx context.Context, target builder.Dynamic, doc Document) error {
	logger := logging.FromContext(ctx)
	if id := tracing.TraceID(ctx); id != "" {
		logger = logger.With(slog.String("trace_id", id))
	}
	s := target.Schema()

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, name := range keys {
		f, ok := s.Field(name)
		if !ok {
			errs = append(errs, &schema.FieldError{Entity: s.Name(), Field: name, Err: schema.ErrUnknownField})
			continue
		}
		v, err := coerce(f, doc[name])
		if err != nil {
			errs = append(errs, &schema.FieldError{Entity: s.Name(), Field: name, Err: err})
			continue
		}
		if err := target.Set(name, v); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		logger.Warn("record applied with errors",
			slog.String("entity", s.Name()),
			slog.Int("fields", len(doc)),
			slog.Int("errors", len(errs)))
		return errors.Join(errs...)
	}
	logger.Debug("record applied",
		slog.String("entity", s.Name()),
		slog.Int("fields", len(doc)))
	return nil
}

// Build applies doc to target and returns the resulting snapshot.
func Build(ctx context.Context, target builder.Dynamic, doc Document) (snap any, err error) {
	ctx, span := tracing.Start(ctx, "record.Build",
		attribute.String("entity", target.Schema().Name()),
		attribute.Int("fields", len(doc)))
	defer func() { tracing.End(span, err) }()

	if err := Apply(ctx, target, doc); err != nil {
		return nil, err
	}
	return target.Build()
}
