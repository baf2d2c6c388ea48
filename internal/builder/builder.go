// Package builder implements the generic entity builder: a mutable
// accumulator of field values, checked against a schema, that materializes an
// immutable entity snapshot on demand.
//
// A Builder is not safe for concurrent use; confine each one to a single
// goroutine. Snapshots it returns are immutable and may be shared freely.
//
// Example:
//
//	b := builder.NewRecord(s)
//	if err := b.Set("title", "Hello"); err != nil {
//	    return err
//	}
//	snap, err := b.Entity()
package builder

import (
	"errors"
	"log/slog"

	"entitymaker/internal/observability/logging"
	"entitymaker/internal/schema"
)

// Factory constructs an entity from a complete snapshot.
type Factory[E any] func(Values) (E, error)

// Dynamic is the untyped surface shared by every builder.
type Dynamic interface {
	Schema() *schema.Schema
	Set(field string, value any) error
	Build() (any, error)
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics Metrics
}

// WithLogger sets the logger used for rejected assignments and failed snapshots.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// Builder accumulates field values for one entity of type E.
type Builder[E any] struct {
	schema  *schema.Schema
	factory Factory[E]
	values  map[string]any
	logger  *slog.Logger
	metrics Metrics
}

// New returns an empty builder for s. factory turns a snapshot into E.
func New[E any](s *schema.Schema, factory Factory[E], opts ...Option) *Builder[E] {
	o := options{
		logger:  slog.Default(),
		metrics: NewNoOpMetrics(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder[E]{
		schema:  s,
		factory: factory,
		values:  make(map[string]any, s.Len()),
		logger:  logging.WithEntity(o.logger, s.Name()),
		metrics: o.metrics,
	}
}

// NewRecord returns a builder whose entity is the snapshot itself. It serves
// schemas that have no dedicated Go type, such as catalog-loaded ones.
func NewRecord(s *schema.Schema, opts ...Option) *Builder[Values] {
	return New(s, func(v Values) (Values, error) { return v, nil }, opts...)
}

// Schema returns the builder's schema.
func (b *Builder[E]) Schema() *schema.Schema { return b.schema }

// Set stores value under field, replacing any earlier value. It fails with a
// *schema.FieldError wrapping ErrUnknownField or ErrTypeMismatch, in which
// case the builder is unchanged.
func (b *Builder[E]) Set(field string, value any) error {
	f, ok := b.schema.Field(field)
	if !ok {
		return b.reject(field, &schema.FieldError{
			Entity: b.schema.Name(),
			Field:  field,
			Err:    schema.ErrUnknownField,
		})
	}
	if err := f.Check(value); err != nil {
		return b.reject(field, &schema.FieldError{
			Entity: b.schema.Name(),
			Field:  field,
			Err:    err,
		})
	}
	b.values[field] = f.Clone(value)
	b.metrics.RecordSet(b.schema.Name(), true)
	return nil
}

func (b *Builder[E]) reject(field string, err error) error {
	b.metrics.RecordSet(b.schema.Name(), false)
	b.logger.Debug("field assignment rejected",
		slog.String("field", field),
		slog.Any("error", err))
	return err
}

// IsSet reports whether field has been assigned since creation or Reset.
func (b *Builder[E]) IsSet(field string) bool {
	_, ok := b.values[field]
	return ok
}

// Reset clears every field.
func (b *Builder[E]) Reset() {
	clear(b.values)
}

// Entity returns a new entity built from the current field values. Optional
// fields never set take their default. If required fields are missing it
// returns one *schema.FieldError per field, joined. The builder keeps its
// state and may continue to be modified.
func (b *Builder[E]) Entity() (E, error) {
	var zero E

	snap, err := b.snapshot()
	if err != nil {
		b.metrics.RecordSnapshot(b.schema.Name(), false)
		b.logger.Debug("snapshot failed", slog.Any("error", err))
		return zero, err
	}
	e, err := b.factory(snap)
	if err != nil {
		b.metrics.RecordSnapshot(b.schema.Name(), false)
		return zero, err
	}
	b.metrics.RecordSnapshot(b.schema.Name(), true)
	return e, nil
}

// Build is Entity without the static type.
func (b *Builder[E]) Build() (any, error) {
	return b.Entity()
}

func (b *Builder[E]) snapshot() (Values, error) {
	var errs []error
	data := make(map[string]any, b.schema.Len())
	for _, f := range b.schema.Fields() {
		v, ok := b.values[f.Name]
		switch {
		case ok:
			data[f.Name] = f.Clone(v)
		case f.Required:
			errs = append(errs, &schema.FieldError{
				Entity: b.schema.Name(),
				Field:  f.Name,
				Err:    schema.ErrMissingField,
			})
		default:
			data[f.Name] = f.Zero()
		}
	}
	if len(errs) > 0 {
		return Values{}, errors.Join(errs...)
	}
	return Values{schema: b.schema, data: data}, nil
}
