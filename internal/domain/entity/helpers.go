package entity

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"entitymaker/internal/builder"
	"entitymaker/internal/domain/value"
)

// mustSet backs the typed setters. Their argument types match the schema, so
// an error here means the schema and the setter disagree.
func mustSet[E any](b *builder.Builder[E], field string, v any) {
	if err := b.Set(field, v); err != nil {
		panic(fmt.Sprintf("entity: typed setter out of sync with schema: %v", err))
	}
}

func copyURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

func sameURL(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func sameComments(a, b []value.Comment) bool {
	return slices.EqualFunc(a, b, func(x, y value.Comment) bool {
		return x.ID == y.ID && x.Author == y.Author && x.Body == y.Body && x.PostedAt.Equal(y.PostedAt)
	})
}

func nonNil(c []value.Comment) []value.Comment {
	if c == nil {
		return []value.Comment{}
	}
	return c
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
