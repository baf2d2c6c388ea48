package entity

import (
	"encoding/json"
	"net/url"
	"slices"
	"time"

	"entitymaker/internal/builder"
	"entitymaker/internal/domain/value"
	"entitymaker/internal/schema"
)

// BlogPost field names.
const (
	BlogPostID              = "blog_post_id"
	BlogPostTitle           = "title"
	BlogPostBody            = "body"
	BlogPostPublicationDate = "publication_date"
	BlogPostTags            = "tags"
	BlogPostComments        = "comments"
	BlogPostOnline          = "online"
	BlogPostAuthor          = "author"
	BlogPostTest            = "test"
)

// BlogPostSchema declares the fields of a BlogPost. ID and title are required.
var BlogPostSchema = schema.MustNew("BlogPost",
	schema.Int(BlogPostID).Require(),
	schema.String(BlogPostTitle).Require(),
	schema.String(BlogPostBody),
	schema.Time(BlogPostPublicationDate),
	schema.Set(BlogPostTags),
	schema.Comments(BlogPostComments),
	schema.URL(BlogPostOnline),
	schema.Object[value.Author](BlogPostAuthor),
	schema.String(BlogPostTest),
)

// BlogPost is a published blog entry.
type BlogPost struct {
	id              int64
	title           string
	body            string
	publicationDate time.Time
	tags            value.TagSet
	comments        []value.Comment
	online          *url.URL
	author          value.Author
	test            string
}

func newBlogPost(v builder.Values) (BlogPost, error) {
	author, _ := v.Object(BlogPostAuthor).(value.Author)
	return BlogPost{
		id:              v.Int(BlogPostID),
		title:           v.String(BlogPostTitle),
		body:            v.String(BlogPostBody),
		publicationDate: v.Time(BlogPostPublicationDate),
		tags:            v.Set(BlogPostTags),
		comments:        v.Comments(BlogPostComments),
		online:          v.URL(BlogPostOnline),
		author:          author,
		test:            v.String(BlogPostTest),
	}, nil
}

// ID returns the post identifier.
func (p BlogPost) ID() int64 { return p.id }

// Title returns the post title.
func (p BlogPost) Title() string { return p.title }

// Body returns the plain-text body.
func (p BlogPost) Body() string { return p.body }

// PublicationDate returns when the post was published, or the zero time.
func (p BlogPost) PublicationDate() time.Time { return p.publicationDate }

// Tags returns the post tags.
func (p BlogPost) Tags() value.TagSet { return p.tags }

// Author returns the post author, or the zero Author when absent.
func (p BlogPost) Author() value.Author { return p.author }

// Test returns the free-form test marker.
func (p BlogPost) Test() string { return p.test }

// Online returns a copy of the post's public URL, or nil when absent.
func (p BlogPost) Online() *url.URL { return copyURL(p.online) }

// Comments returns a copy of the comment list.
func (p BlogPost) Comments() []value.Comment { return slices.Clone(p.comments) }

// Equal reports whether both posts hold the same values.
func (p BlogPost) Equal(o BlogPost) bool {
	return p.id == o.id &&
		p.title == o.title &&
		p.body == o.body &&
		p.publicationDate.Equal(o.publicationDate) &&
		p.tags.Equal(o.tags) &&
		sameComments(p.comments, o.comments) &&
		sameURL(p.online, o.online) &&
		p.author == o.author &&
		p.test == o.test
}

// MarshalJSON encodes the post with snake_case keys.
func (p BlogPost) MarshalJSON() ([]byte, error) {
	var author *value.Author
	if !p.author.IsZero() {
		author = &p.author
	}
	return json.Marshal(struct {
		ID              int64           `json:"blog_post_id"`
		Title           string          `json:"title"`
		Body            string          `json:"body,omitempty"`
		PublicationDate *time.Time      `json:"publication_date,omitempty"`
		Tags            value.TagSet    `json:"tags"`
		Comments        []value.Comment `json:"comments"`
		Online          string          `json:"online,omitempty"`
		Author          *value.Author   `json:"author,omitempty"`
		Test            string          `json:"test,omitempty"`
	}{
		ID:              p.id,
		Title:           p.title,
		Body:            p.body,
		PublicationDate: timePtr(p.publicationDate),
		Tags:            p.tags,
		Comments:        nonNil(p.comments),
		Online:          urlString(p.online),
		Author:          author,
		Test:            p.test,
	})
}

// BlogPostBuilder accumulates the fields of one BlogPost.
type BlogPostBuilder struct {
	b *builder.Builder[BlogPost]
}

// NewBlogPostBuilder returns an empty builder.
func NewBlogPostBuilder(opts ...builder.Option) *BlogPostBuilder {
	return &BlogPostBuilder{b: builder.New(BlogPostSchema, newBlogPost, opts...)}
}

// SetBlogPostID sets the required post identifier.
func (b *BlogPostBuilder) SetBlogPostID(id int64) { mustSet(b.b, BlogPostID, id) }

// SetTitle sets the required post title.
func (b *BlogPostBuilder) SetTitle(title string) { mustSet(b.b, BlogPostTitle, title) }

// SetBody sets the plain-text body.
func (b *BlogPostBuilder) SetBody(body string) { mustSet(b.b, BlogPostBody, body) }

// SetPublicationDate sets the publication time.
func (b *BlogPostBuilder) SetPublicationDate(t time.Time) { mustSet(b.b, BlogPostPublicationDate, t) }

// SetTags sets the post tags.
func (b *BlogPostBuilder) SetTags(tags value.TagSet) { mustSet(b.b, BlogPostTags, tags) }

// SetComments sets the comment list. The builder keeps its own copy.
func (b *BlogPostBuilder) SetComments(c []value.Comment) { mustSet(b.b, BlogPostComments, c) }

// SetOnline sets the public URL. The builder keeps its own copy.
func (b *BlogPostBuilder) SetOnline(online *url.URL) { mustSet(b.b, BlogPostOnline, online) }

// SetAuthor sets the post author.
func (b *BlogPostBuilder) SetAuthor(author value.Author) { mustSet(b.b, BlogPostAuthor, author) }

// SetTest sets the free-form test marker.
func (b *BlogPostBuilder) SetTest(test string) { mustSet(b.b, BlogPostTest, test) }

// Set assigns a field by name for dynamic input.
func (b *BlogPostBuilder) Set(field string, v any) error { return b.b.Set(field, v) }

// BlogPost returns a snapshot of the post being built.
func (b *BlogPostBuilder) BlogPost() (BlogPost, error) { return b.b.Entity() }

// Dynamic exposes the untyped builder.
func (b *BlogPostBuilder) Dynamic() builder.Dynamic { return b.b }
