package schema

import (
	"fmt"
	"reflect"
)

// Field declares one named field of an entity.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Type is the concrete Go type of a KindObject or KindList field;
	// nil otherwise.
	Type reflect.Type
}

// Int declares an integer field.
func Int(name string) Field { return Field{Name: name, Kind: KindInt} }

// String declares a string field.
func String(name string) Field { return Field{Name: name, Kind: KindString} }

// URL declares a URL field.
func URL(name string) Field { return Field{Name: name, Kind: KindURL} }

// Time declares a timestamp field.
func Time(name string) Field { return Field{Name: name, Kind: KindTime} }

// Set declares a set-of-strings field.
func Set(name string) Field { return Field{Name: name, Kind: KindStringSet} }

// Comments declares an ordered comment list field.
func Comments(name string) Field { return Field{Name: name, Kind: KindComments} }

// Object declares a nested value object field of type T.
func Object[T any](name string) Field {
	return Field{Name: name, Kind: KindObject, Type: reflect.TypeFor[T]()}
}

// List declares an ordered list field whose elements are E values.
func List[E any](name string) Field {
	return Field{Name: name, Kind: KindList, Type: reflect.TypeFor[[]E]()}
}

// Require returns a copy of f marked as required.
func (f Field) Require() Field {
	f.Required = true
	return f
}

// TypeName is the human-readable type of the field.
func (f Field) TypeName() string {
	if f.ownType() && f.Type != nil {
		return f.Type.String()
	}
	return f.Kind.String()
}

// Zero returns the absent default for the field.
func (f Field) Zero() any {
	if f.ownType() {
		return reflect.Zero(f.Type).Interface()
	}
	return reflect.Zero(f.Kind.goType()).Interface()
}

// Check reports whether v carries exactly the declared type.
// Untyped nil never matches; a typed nil *url.URL is accepted as "absent".
func (f Field) Check(v any) error {
	want := f.Type
	if !f.ownType() {
		want = f.Kind.goType()
	}
	if v == nil {
		return fmt.Errorf("%w: want %s, got nil", ErrTypeMismatch, f.TypeName())
	}
	if got := reflect.TypeOf(v); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, f.TypeName(), got)
	}
	return nil
}

// Clone returns a copy of v that shares no mutable memory with it.
func (f Field) Clone(v any) any {
	return cloneValue(v)
}

func (f Field) validate() error {
	if f.Name == "" {
		return invalid("field name is empty")
	}
	if !f.Kind.Valid() {
		return invalid("field %q has invalid kind %s", f.Name, f.Kind)
	}
	if !f.ownType() {
		if f.Type != nil {
			return invalid("field %q of kind %s must not declare a type", f.Name, f.Kind)
		}
		return nil
	}
	if f.Type == nil {
		return invalid("%s field %q has no type", f.Kind, f.Name)
	}
	t := f.Type
	if f.Kind == KindList {
		if t.Kind() != reflect.Slice {
			return invalid("list field %q has non-slice type %s", f.Name, t)
		}
		t = t.Elem()
	}
	if err := checkPlainValue(t); err != nil {
		return invalid("field %q cannot be copied into a snapshot: %v", f.Name, err)
	}
	return nil
}

// ownType reports whether the field declares its Go type in Type.
func (f Field) ownType() bool {
	return f.Kind == KindObject || f.Kind == KindList
}
