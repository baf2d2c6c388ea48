package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const howToCatalog = `
project:
  name: HowTo
  prefix: HT
  copyright: 2012 Antoine d'Otreppe
entities:
  - name: HowToItem
    fields:
      - {name: id, type: int, required: true}
      - {name: title, type: string, required: true}
      - {name: image, type: url}
      - {name: publication, type: date}
      - {name: tags, type: set}
      - {name: comments, type: array}
  - name: Profile
    fields:
      - {name: owner, type: object, object: Profile}
`

func testTypes() map[string]reflect.Type {
	return map[string]reflect.Type{"Profile": reflect.TypeFor[profile]()}
}

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(howToCatalog), testTypes())
	require.NoError(t, err)

	assert.Equal(t, Project{Name: "HowTo", Prefix: "HT", Copyright: "2012 Antoine d'Otreppe"}, c.Project)
	require.Len(t, c.Schemas(), 2)

	want := MustNew("HowToItem",
		Int("id").Require(),
		String("title").Require(),
		URL("image"),
		Time("publication"),
		Set("tags"),
		Comments("comments"),
	)
	got, ok := c.Lookup("HowToItem")
	require.True(t, ok)
	assert.True(t, want.Equal(got), "catalog schema should match the Go declaration")

	owner, ok := c.Schemas()[1].Field("owner")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[profile](), owner.Type)
}

func TestCatalog_LookupWithPrefix(t *testing.T) {
	c, err := Load(strings.NewReader(howToCatalog), testTypes())
	require.NoError(t, err)

	s, ok := c.Lookup("HTHowToItem")
	require.True(t, ok)
	assert.Equal(t, "HowToItem", s.Name())
	assert.Equal(t, "HTHowToItem", c.QualifiedName(s))

	_, ok = c.Lookup("HT")
	assert.False(t, ok)
	_, ok = c.Lookup("MPBlogPost")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ""},
		{"unknown key", "entities: []\nextra: 1\n"},
		{"unknown type", "entities:\n  - name: E\n    fields:\n      - {name: x, type: any}\n"},
		{"unknown object type", "entities:\n  - name: E\n    fields:\n      - {name: x, type: object, object: Nope}\n"},
		{"object name on scalar", "entities:\n  - name: E\n    fields:\n      - {name: x, type: int, object: Profile}\n"},
		{"duplicate entity", "entities:\n  - name: E\n  - name: E\n"},
		{"duplicate field", "entities:\n  - name: E\n    fields:\n      - {name: x, type: int}\n      - {name: x, type: int}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml), testTypes())
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestLoad_Inheritance(t *testing.T) {
	c, err := Load(strings.NewReader(`
entities:
  - name: Tutorial
    inherits: Post
    fields:
      - {name: steps, type: array, of: string}
  - name: Post
    inherits: Entity
    fields:
      - {name: title, type: string, required: true}
  - name: Entity
    fields:
      - {name: id, type: int, required: true}
`), testTypes())
	require.NoError(t, err)

	tutorial, ok := c.Lookup("Tutorial")
	require.True(t, ok)
	want := MustNew("Tutorial",
		Int("id").Require(),
		String("title").Require(),
		List[string]("steps"),
	)
	assert.True(t, want.Equal(tutorial), "parent fields come first")
}

func TestLoad_InheritanceErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"undeclared parent", "entities:\n  - name: A\n    inherits: Z\n"},
		{"self", "entities:\n  - name: A\n    inherits: A\n"},
		{"cycle", "entities:\n  - name: A\n    inherits: B\n  - name: B\n    inherits: C\n  - name: C\n    inherits: A\n"},
		{"field redeclared", "entities:\n  - name: A\n    fields:\n      - {name: id, type: int}\n  - name: B\n    inherits: A\n    fields:\n      - {name: id, type: string}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml), testTypes())
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestLoad_ArrayElementTypes(t *testing.T) {
	c, err := Load(strings.NewReader(`
entities:
  - name: Album
    fields:
      - {name: comments, type: array}
      - {name: notes, type: array, of: comment}
      - {name: captions, type: array, of: string}
      - {name: ratings, type: array, of: int}
      - {name: shots, type: array, of: date}
      - {name: owners, type: array, of: Profile}
`), testTypes())
	require.NoError(t, err)

	album, ok := c.Lookup("Album")
	require.True(t, ok)
	want := MustNew("Album",
		Comments("comments"),
		Comments("notes"),
		List[string]("captions"),
		List[int64]("ratings"),
		List[time.Time]("shots"),
		List[profile]("owners"),
	)
	assert.True(t, want.Equal(album))

	_, err = Load(strings.NewReader("entities:\n  - name: E\n    fields:\n      - {name: x, type: array, of: Nope}\n"), testTypes())
	assert.ErrorIs(t, err, ErrInvalidSchema)
	_, err = Load(strings.NewReader("entities:\n  - name: E\n    fields:\n      - {name: x, type: set, of: string}\n"), testTypes())
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(howToCatalog), 0o600))

	c, err := LoadFile(path, testTypes())
	require.NoError(t, err)
	assert.Len(t, c.Schemas(), 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
