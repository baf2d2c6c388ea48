package entity

import (
	"fmt"
	"reflect"
	"sort"

	"entitymaker/internal/builder"
	"entitymaker/internal/domain/value"
	"entitymaker/internal/schema"
)

var registry = map[string]func(...builder.Option) builder.Dynamic{
	HowToItemSchema.Name(): func(opts ...builder.Option) builder.Dynamic {
		return NewHowToItemBuilder(opts...).Dynamic()
	},
	BlogPostSchema.Name(): func(opts ...builder.Option) builder.Dynamic {
		return NewBlogPostBuilder(opts...).Dynamic()
	},
}

// Names returns the built-in entity names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Schemas returns the built-in schemas, sorted by entity name.
func Schemas() []*schema.Schema {
	return []*schema.Schema{BlogPostSchema, HowToItemSchema}
}

// NewBuilder returns an empty builder for the named built-in entity.
func NewBuilder(name string, opts ...builder.Option) (builder.Dynamic, error) {
	newFn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	return newFn(opts...), nil
}

// ObjectTypes maps catalog object type names to the value objects entities use.
func ObjectTypes() map[string]reflect.Type {
	return map[string]reflect.Type{
		"Author": reflect.TypeFor[value.Author](),
	}
}
