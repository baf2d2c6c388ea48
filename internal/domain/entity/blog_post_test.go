package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entitymaker/internal/builder"
	"entitymaker/internal/domain/value"
	"entitymaker/internal/schema"
)

func TestBlogPostBuilder_AllFields(t *testing.T) {
	date := time.Date(2012, 9, 18, 12, 0, 0, 0, time.UTC)

	b := NewBlogPostBuilder()
	b.SetBlogPostID(11)
	b.SetTitle("Generated builders")
	b.SetBody("Why write them by hand?")
	b.SetPublicationDate(date)
	b.SetTags(value.NewTagSet("codegen"))
	b.SetComments([]value.Comment{value.NewComment("eve", "agreed", date)})
	b.SetOnline(mustURL(t, "https://blog.example.com/builders"))
	b.SetAuthor(value.Author{Name: "Antoine", Email: "antoine@example.com"})
	b.SetTest("fixture")

	post, err := b.BlogPost()
	require.NoError(t, err)

	assert.Equal(t, int64(11), post.ID())
	assert.Equal(t, "Generated builders", post.Title())
	assert.Equal(t, "Why write them by hand?", post.Body())
	assert.True(t, date.Equal(post.PublicationDate()))
	assert.True(t, post.Tags().Has("codegen"))
	require.Len(t, post.Comments(), 1)
	assert.Equal(t, "eve", post.Comments()[0].Author)
	assert.Equal(t, "https://blog.example.com/builders", post.Online().String())
	assert.Equal(t, value.Author{Name: "Antoine", Email: "antoine@example.com"}, post.Author())
	assert.Equal(t, "fixture", post.Test())
}

func TestBlogPostBuilder_Defaults(t *testing.T) {
	b := NewBlogPostBuilder()
	b.SetBlogPostID(1)
	b.SetTitle("t")

	post, err := b.BlogPost()
	require.NoError(t, err)

	assert.Empty(t, post.Body())
	assert.True(t, post.PublicationDate().IsZero())
	assert.Zero(t, post.Tags().Len())
	assert.Empty(t, post.Comments())
	assert.Nil(t, post.Online())
	assert.True(t, post.Author().IsZero())
	assert.Empty(t, post.Test())
}

func TestBlogPostBuilder_AuthorMustBeConcreteType(t *testing.T) {
	b := NewBlogPostBuilder()

	err := b.Set(BlogPostAuthor, map[string]any{"name": "Antoine"})

	assert.ErrorIs(t, err, schema.ErrTypeMismatch)
}

func TestBlogPost_LastWriteWinsAndSnapshotsStay(t *testing.T) {
	b := NewBlogPostBuilder()
	b.SetBlogPostID(1)
	b.SetTitle("draft")
	b.SetTags(value.NewTagSet("a"))

	draft, err := b.BlogPost()
	require.NoError(t, err)

	b.SetTitle("final")
	b.SetTags(value.NewTagSet("b"))
	final, err := b.BlogPost()
	require.NoError(t, err)

	assert.Equal(t, "draft", draft.Title())
	assert.Equal(t, []string{"a"}, draft.Tags().Values())
	assert.Equal(t, "final", final.Title())
	assert.Equal(t, []string{"b"}, final.Tags().Values())
}

func TestBlogPost_MarshalJSON(t *testing.T) {
	b := NewBlogPostBuilder()
	b.SetBlogPostID(2)
	b.SetTitle("Hello")
	b.SetAuthor(value.Author{Name: "Antoine"})

	post, err := b.BlogPost()
	require.NoError(t, err)
	data, err := json.Marshal(post)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"blog_post_id": 2,
		"title": "Hello",
		"tags": [],
		"comments": [],
		"author": {"name": "Antoine"}
	}`, string(data))
}

func TestBlogPostBuilder_WithMetrics(t *testing.T) {
	m := builder.NewPrometheusMetrics()
	b := NewBlogPostBuilder(builder.WithMetrics(m))

	_, err := b.BlogPost()
	assert.Error(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "entitymaker_builder_snapshots_total", families[0].GetName())
}
