package schema

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"

	"entitymaker/internal/domain/value"
)

// Kind is the semantic type of a field.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindString
	KindURL
	KindTime
	KindStringSet
	KindComments
	KindObject
	KindList
)

var kindNames = map[Kind]string{
	KindInt:       "int",
	KindString:    "string",
	KindURL:       "url",
	KindTime:      "time",
	KindStringSet: "set",
	KindComments:  "array",
	KindObject:    "object",
	KindList:      "list",
}

// kindAliases maps catalog type names onto kinds.
var kindAliases = map[string]Kind{
	"int":      KindInt,
	"integer":  KindInt,
	"string":   KindString,
	"url":      KindURL,
	"time":     KindTime,
	"date":     KindTime,
	"set":      KindStringSet,
	"array":    KindComments,
	"comments": KindComments,
	"object":   KindObject,
}

var (
	urlType      = reflect.TypeOf((*url.URL)(nil))
	timeType     = reflect.TypeOf(time.Time{})
	tagSetType   = reflect.TypeOf(value.TagSet{})
	commentsType = reflect.TypeOf([]value.Comment(nil))
)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind resolves a catalog type name such as "int" or "date".
func ParseKind(name string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KindInvalid, invalid("unknown field type %q", name)
	}
	return k, nil
}

// goType is the exact Go type a Set call must carry for the kind.
// Object and list fields carry their own type and are handled by Field.
func (k Kind) goType() reflect.Type {
	switch k {
	case KindInt:
		return reflect.TypeOf(int64(0))
	case KindString:
		return reflect.TypeOf("")
	case KindURL:
		return urlType
	case KindTime:
		return timeType
	case KindStringSet:
		return tagSetType
	case KindComments:
		return commentsType
	}
	return nil
}

// cloneValue copies the mutable parts of a value so the copy shares no
// memory with the original. TagSet is immutable and is shared as is.
func cloneValue(v any) any {
	switch x := v.(type) {
	case *url.URL:
		if x == nil {
			return x
		}
		u := *x
		if x.User != nil {
			user := *x.User
			u.User = &user
		}
		return &u
	case []value.Comment:
		return slices.Clone(x)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && !rv.IsNil() {
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}
	return v
}

// valueLeaves are struct types copied by assignment even though they hold
// references internally. Their shared state is never mutated.
var valueLeaves = map[reflect.Type]bool{
	timeType:   true,
	tagSetType: true,
}

// checkPlainValue reports an error when a copy of a t value would share
// mutable memory with the original.
func checkPlainValue(t reflect.Type) error {
	if valueLeaves[t] {
		return nil
	}
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return fmt.Errorf("%s is a reference type", t)
	case reflect.Array:
		return checkPlainValue(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			sf := t.Field(i)
			if err := checkPlainValue(sf.Type); err != nil {
				return fmt.Errorf("%s.%s: %w", t, sf.Name, err)
			}
		}
	}
	return nil
}
