package builder

import (
	"encoding/json"
	"net/url"
	"reflect"
	"time"

	"entitymaker/internal/domain/value"
	"entitymaker/internal/schema"
)

// Values is an immutable snapshot of a builder: one value for every field of
// its schema, with absent optional fields holding their default. Getters that
// return mutable data return copies.
type Values struct {
	schema *schema.Schema
	data   map[string]any
}

// Schema returns the schema the snapshot was taken against.
func (v Values) Schema() *schema.Schema { return v.schema }

// Get returns the value of a field and whether the schema declares it.
func (v Values) Get(name string) (any, bool) {
	f, ok := v.field(name)
	if !ok {
		return nil, false
	}
	return f.Clone(v.data[name]), true
}

// Int returns an int field, or 0 if name is not an int field.
func (v Values) Int(name string) int64 {
	n, _ := v.data[name].(int64)
	return n
}

// String returns a string field, or "" if name is not a string field.
func (v Values) String(name string) string {
	s, _ := v.data[name].(string)
	return s
}

// URL returns a copy of a URL field, or nil when absent.
func (v Values) URL(name string) *url.URL {
	u, _ := v.data[name].(*url.URL)
	if u == nil {
		return nil
	}
	return cloneURL(u)
}

// Time returns a time field, or the zero time when absent.
func (v Values) Time(name string) time.Time {
	t, _ := v.data[name].(time.Time)
	return t
}

// Set returns a set field, or an empty set when absent.
func (v Values) Set(name string) value.TagSet {
	s, _ := v.data[name].(value.TagSet)
	return s
}

// Comments returns a copy of a comment list field.
func (v Values) Comments(name string) []value.Comment {
	c, _ := v.data[name].([]value.Comment)
	if c == nil {
		return nil
	}
	out := make([]value.Comment, len(c))
	copy(out, c)
	return out
}

// Object returns a copy of an object or list field.
func (v Values) Object(name string) any {
	x, _ := v.Get(name)
	return x
}

// Equal reports whether two snapshots hold equal values for the same schema.
func (v Values) Equal(o Values) bool {
	if !v.schema.Equal(o.schema) {
		return false
	}
	for name, a := range v.data {
		b := o.data[name]
		switch x := a.(type) {
		case value.TagSet:
			y, _ := b.(value.TagSet)
			if !x.Equal(y) {
				return false
			}
		case time.Time:
			y, _ := b.(time.Time)
			if !x.Equal(y) {
				return false
			}
		default:
			if !reflect.DeepEqual(a, b) {
				return false
			}
		}
	}
	return true
}

// Map returns the snapshot as a plain map keyed by field name.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.data))
	for name := range v.data {
		out[name], _ = v.Get(name)
	}
	return out
}

// MarshalJSON encodes the snapshot as an object keyed by field name.
// URLs are written as strings and absent URLs as null.
func (v Values) MarshalJSON() ([]byte, error) {
	m := v.Map()
	for name, x := range m {
		if u, ok := x.(*url.URL); ok {
			if u == nil {
				m[name] = nil
			} else {
				m[name] = u.String()
			}
		}
	}
	return json.Marshal(m)
}

func (v Values) field(name string) (schema.Field, bool) {
	if v.schema == nil {
		return schema.Field{}, false
	}
	return v.schema.Field(name)
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
