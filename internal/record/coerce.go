package record

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"entitymaker/internal/domain/value"
	"entitymaker/internal/schema"
)

// dateLayouts are tried in order for string time values.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// coerce converts a raw YAML/JSON value into the Go type field f accepts.
func coerce(f schema.Field, raw any) (any, error) {
	switch f.Kind {
	case schema.KindInt:
		return toInt(raw)
	case schema.KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch(f, raw)
		}
		return s, nil
	case schema.KindURL:
		if raw == nil {
			return (*url.URL)(nil), nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch(f, raw)
		}
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrTypeMismatch, err)
		}
		return u, nil
	case schema.KindTime:
		return toTime(f, raw)
	case schema.KindStringSet:
		items, ok := raw.([]any)
		if !ok {
			return nil, mismatch(f, raw)
		}
		tags := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, mismatch(f, it)
			}
			tags = append(tags, s)
		}
		return value.NewTagSet(tags...), nil
	case schema.KindComments:
		return toComments(f, raw)
	case schema.KindObject:
		if _, ok := raw.(map[string]any); !ok {
			return nil, mismatch(f, raw)
		}
		return reencode(f, raw)
	case schema.KindList:
		if _, ok := raw.([]any); !ok {
			return nil, mismatch(f, raw)
		}
		return reencode(f, raw)
	}
	return nil, mismatch(f, raw)
}

func toInt(raw any) (any, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", schema.ErrTypeMismatch, n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return nil, fmt.Errorf("%w: %v is not an integer", schema.ErrTypeMismatch, n)
		}
		return int64(n), nil
	}
	return nil, fmt.Errorf("%w: want int, got %T", schema.ErrTypeMismatch, raw)
}

func toTime(f schema.Field, raw any) (any, error) {
	switch t := raw.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a recognized time", schema.ErrTypeMismatch, t)
	}
	return nil, mismatch(f, raw)
}

func toComments(f schema.Field, raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, mismatch(f, raw)
	}
	comments := make([]value.Comment, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: comment %d: want mapping, got %T", schema.ErrTypeMismatch, i, it)
		}
		c := value.Comment{}
		c.Author, _ = m["author"].(string)
		c.Body, _ = m["body"].(string)
		if at, ok := m["posted_at"]; ok {
			t, err := toTime(f, at)
			if err != nil {
				return nil, fmt.Errorf("comment %d: %w", i, err)
			}
			c.PostedAt = t.(time.Time)
		}
		if id, ok := m["id"].(string); ok {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, fmt.Errorf("%w: comment %d: %v", schema.ErrTypeMismatch, i, err)
			}
			c.ID = parsed
		} else {
			c.ID = uuid.New()
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// reencode marshals raw back to YAML and decodes it into the declared type.
func reencode(f schema.Field, raw any) (any, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrTypeMismatch, err)
	}
	ptr := reflect.New(f.Type)
	if err := yaml.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrTypeMismatch, err)
	}
	return ptr.Elem().Interface(), nil
}

func mismatch(f schema.Field, raw any) error {
	return fmt.Errorf("%w: want %s, got %T", schema.ErrTypeMismatch, f.TypeName(), raw)
}
