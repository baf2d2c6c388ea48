// Package value contains the small immutable value objects that entity fields
// are made of: tag sets, comments and authors.
package value

import (
	"encoding/json"
	"slices"
	"sort"
)

// TagSet is an immutable set of strings. The zero value is an empty set.
type TagSet struct {
	m map[string]struct{}
}

// NewTagSet returns a set holding tags. Duplicates collapse.
func NewTagSet(tags ...string) TagSet {
	if len(tags) == 0 {
		return TagSet{}
	}
	m := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		m[t] = struct{}{}
	}
	return TagSet{m: m}
}

// Len returns the number of tags.
func (s TagSet) Len() int { return len(s.m) }

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s.m[tag]
	return ok
}

// Values returns the tags in sorted order.
func (s TagSet) Values() []string {
	out := make([]string, 0, len(s.m))
	for t := range s.m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// With returns a new set holding the tags of s plus tags.
func (s TagSet) With(tags ...string) TagSet {
	return NewTagSet(append(s.Values(), tags...)...)
}

// Equal reports whether both sets hold the same tags.
func (s TagSet) Equal(o TagSet) bool {
	return slices.Equal(s.Values(), o.Values())
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array of strings.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
