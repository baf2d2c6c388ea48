// Package schema declares entity shapes: the named, typed fields an entity
// builder accepts, and which of them must be present before an entity can be
// built. Schemas are declared in Go or loaded from a YAML catalog.
package schema

import "slices"

// Schema is the ordered field list of one entity type. It is immutable once
// constructed and safe for concurrent use.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New validates the field list and returns a schema for the named entity.
func New(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, invalid("entity name is empty")
	}
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, invalid("entity %s declares field %q twice", name, f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustNew is like New but panics on an invalid declaration.
// It is meant for package-level schema variables.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the entity name.
func (s *Schema) Name() string { return s.name }

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Required returns the names of the required fields in declaration order.
func (s *Schema) Required() []string {
	var names []string
	for _, f := range s.fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Equal reports whether two schemas declare the same entity and fields.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.name == o.name && slices.Equal(s.fields, o.fields)
}
