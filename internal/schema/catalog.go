package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project holds the catalog-wide settings.
type Project struct {
	Name      string `yaml:"name"`
	Prefix    string `yaml:"prefix"`
	Copyright string `yaml:"copyright"`
}

// Catalog is a set of schemas loaded from one YAML document.
type Catalog struct {
	Project Project
	schemas []*Schema
	byName  map[string]*Schema
}

type catalogFile struct {
	Project  Project       `yaml:"project"`
	Entities []entityEntry `yaml:"entities"`
}

type entityEntry struct {
	Name     string       `yaml:"name"`
	Inherits string       `yaml:"inherits"`
	Fields   []fieldEntry `yaml:"fields"`
}

type fieldEntry struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
	Object   string `yaml:"object"`
	// Of names the element type of an array field. Arrays without it hold comments.
	Of string `yaml:"of"`
}

// elementTypes are the built-in array element names accepted by "of".
var elementTypes = map[string]reflect.Type{
	"string":  reflect.TypeFor[string](),
	"int":     reflect.TypeFor[int64](),
	"integer": reflect.TypeFor[int64](),
	"time":    timeType,
	"date":    timeType,
}

// LoadFile reads a catalog from path. See Load.
func LoadFile(path string, types map[string]reflect.Type) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f, types)
}

// Load parses a YAML catalog. Object fields name their Go type through the
// "object" key, which is resolved against types; array fields name their
// element type through "of". An entity that "inherits" another starts with
// the parent's fields.
func Load(r io.Reader, types map[string]reflect.Type) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalid("schema catalog is empty")
		}
		return nil, fmt.Errorf("%w: decode catalog: %v", ErrInvalidSchema, err)
	}

	entries := make(map[string]entityEntry, len(file.Entities))
	for _, e := range file.Entities {
		if _, dup := entries[e.Name]; dup {
			return nil, invalid("entity %s declared twice", e.Name)
		}
		entries[e.Name] = e
	}

	c := &Catalog{
		Project: file.Project,
		byName:  make(map[string]*Schema, len(file.Entities)),
	}
	for _, e := range file.Entities {
		fields, err := resolveFields(e, entries, types, nil)
		if err != nil {
			return nil, err
		}
		s, err := New(e.Name, fields...)
		if err != nil {
			return nil, err
		}
		c.byName[s.Name()] = s
		c.schemas = append(c.schemas, s)
	}
	return c, nil
}

// resolveFields returns the fields of e preceded by those of its ancestors.
// chain holds the descendants of e that are being resolved.
func resolveFields(e entityEntry, entries map[string]entityEntry, types map[string]reflect.Type, chain []string) ([]Field, error) {
	var fields []Field
	if e.Inherits != "" {
		if slices.Contains(chain, e.Inherits) || e.Inherits == e.Name {
			return nil, invalid("entity %s: inheritance cycle through %s", e.Name, e.Inherits)
		}
		parent, ok := entries[e.Inherits]
		if !ok {
			return nil, invalid("entity %s inherits undeclared entity %s", e.Name, e.Inherits)
		}
		inherited, err := resolveFields(parent, entries, types, append(chain, e.Name))
		if err != nil {
			return nil, err
		}
		fields = inherited
	}
	for _, fe := range e.Fields {
		f, err := fe.field(types)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (fe fieldEntry) field(types map[string]reflect.Type) (Field, error) {
	kind, err := ParseKind(fe.Type)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", fe.Name, err)
	}
	f := Field{Name: fe.Name, Kind: kind, Required: fe.Required}
	switch {
	case kind == KindObject:
		t, ok := types[fe.Object]
		if !ok {
			return Field{}, invalid("field %q: unknown object type %q", fe.Name, fe.Object)
		}
		f.Type = t
	case fe.Object != "":
		return Field{}, invalid("field %q: object type given for %s field", fe.Name, kind)
	}
	if fe.Of == "" {
		return f, nil
	}
	if kind != KindComments {
		return Field{}, invalid("field %q: element type given for %s field", fe.Name, kind)
	}
	switch elem := strings.ToLower(strings.TrimSpace(fe.Of)); elem {
	case "comment", "comments":
	default:
		t, ok := elementTypes[elem]
		if !ok {
			if t, ok = types[fe.Of]; !ok {
				return Field{}, invalid("field %q: unknown element type %q", fe.Name, fe.Of)
			}
		}
		f.Kind = KindList
		f.Type = reflect.SliceOf(t)
	}
	return f, nil
}

// Schemas returns the schemas in declaration order.
func (c *Catalog) Schemas() []*Schema {
	out := make([]*Schema, len(c.schemas))
	copy(out, c.schemas)
	return out
}

// Lookup finds a schema by entity name, with or without the project prefix.
func (c *Catalog) Lookup(name string) (*Schema, bool) {
	if s, ok := c.byName[name]; ok {
		return s, true
	}
	if p := c.Project.Prefix; p != "" && len(name) > len(p) && name[:len(p)] == p {
		s, ok := c.byName[name[len(p):]]
		return s, ok
	}
	return nil, false
}

// QualifiedName returns the entity name with the project prefix applied.
func (c *Catalog) QualifiedName(s *Schema) string {
	return c.Project.Prefix + s.Name()
}
