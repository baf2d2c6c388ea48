// Package entity defines the concrete entities built through the generic
// builder: HowToItem and BlogPost, their schemas and their typed builders.
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

// HowToItem field names.
const (
	HowToItemID          = "id"
	HowToItemTitle       = "title"
	HowToItemAuthor      = "author"
	HowToItemImage       = "image"
	HowToItemDescription = "description"
	HowToItemScore       = "score"
	HowToItemTags        = "tags"
	HowToItemComments    = "comments"
	HowToItemPublication = "publication"
)

// HowToItemSchema declares the fields of a HowToItem. ID and title are required.
var HowToItemSchema = schema.MustNew("HowToItem",
	schema.Int(HowToItemID).Require(),
	schema.String(HowToItemTitle).Require(),
	schema.String(HowToItemAuthor),
	schema.URL(HowToItemImage),
	schema.String(HowToItemDescription),
	schema.Int(HowToItemScore),
	schema.Set(HowToItemTags),
	schema.Comments(HowToItemComments),
	schema.Time(HowToItemPublication),
)

// HowToItem is a how-to article with its score, tags and reader comments.
// It is immutable; accessors return copies of mutable data.
type HowToItem struct {
	id          int64
	title       string
	author      string
	image       *url.URL
	description string
	score       int64
	tags        value.TagSet
	comments    []value.Comment
	publication time.Time
}

func newHowToItem(v builder.Values) (HowToItem, error) {
	return HowToItem{
		id:          v.Int(HowToItemID),
		title:       v.String(HowToItemTitle),
		author:      v.String(HowToItemAuthor),
		image:       v.URL(HowToItemImage),
		description: v.String(HowToItemDescription),
		score:       v.Int(HowToItemScore),
		tags:        v.Set(HowToItemTags),
		comments:    v.Comments(HowToItemComments),
		publication: v.Time(HowToItemPublication),
	}, nil
}

// ID returns the item identifier.
func (h HowToItem) ID() int64 { return h.id }

// Title returns the item title.
func (h HowToItem) Title() string { return h.title }

// Author returns the author name, or "" when absent.
func (h HowToItem) Author() string { return h.author }

// Description returns the item description.
func (h HowToItem) Description() string { return h.description }

// Score returns the reader score.
func (h HowToItem) Score() int64 { return h.score }

// Tags returns the item tags.
func (h HowToItem) Tags() value.TagSet { return h.tags }

// Publication returns the publication time, or the zero time when absent.
func (h HowToItem) Publication() time.Time { return h.publication }

// Image returns a copy of the image URL, or nil when absent.
func (h HowToItem) Image() *url.URL { return copyURL(h.image) }

// Comments returns a copy of the comment list.
func (h HowToItem) Comments() []value.Comment { return slices.Clone(h.comments) }

// Equal reports whether both items hold the same values.
func (h HowToItem) Equal(o HowToItem) bool {
	return h.id == o.id &&
		h.title == o.title &&
		h.author == o.author &&
		sameURL(h.image, o.image) &&
		h.description == o.description &&
		h.score == o.score &&
		h.tags.Equal(o.tags) &&
		sameComments(h.comments, o.comments) &&
		h.publication.Equal(o.publication)
}

// MarshalJSON encodes the item with snake_case keys.
func (h HowToItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          int64           `json:"id"`
		Title       string          `json:"title"`
		Author      string          `json:"author,omitempty"`
		Image       string          `json:"image,omitempty"`
		Description string          `json:"description,omitempty"`
		Score       int64           `json:"score"`
		Tags        value.TagSet    `json:"tags"`
		Comments    []value.Comment `json:"comments"`
		Publication *time.Time      `json:"publication,omitempty"`
	}{
		ID:          h.id,
		Title:       h.title,
		Author:      h.author,
		Image:       urlString(h.image),
		Description: h.description,
		Score:       h.score,
		Tags:        h.tags,
		Comments:    nonNil(h.comments),
		Publication: timePtr(h.publication),
	})
}

// HowToItemBuilder accumulates the fields of one HowToItem.
type HowToItemBuilder struct {
	b *builder.Builder[HowToItem]
}

// NewHowToItemBuilder returns an empty builder.
func NewHowToItemBuilder(opts ...builder.Option) *HowToItemBuilder {
	return &HowToItemBuilder{b: builder.New(HowToItemSchema, newHowToItem, opts...)}
}

// SetID sets the required item identifier.
func (b *HowToItemBuilder) SetID(id int64) { mustSet(b.b, HowToItemID, id) }

// SetTitle sets the required item title.
func (b *HowToItemBuilder) SetTitle(title string) { mustSet(b.b, HowToItemTitle, title) }

// SetAuthor sets the author name.
func (b *HowToItemBuilder) SetAuthor(author string) { mustSet(b.b, HowToItemAuthor, author) }

// SetImage sets the image URL. The builder keeps its own copy.
func (b *HowToItemBuilder) SetImage(image *url.URL) { mustSet(b.b, HowToItemImage, image) }

// SetDescription sets the item description.
func (b *HowToItemBuilder) SetDescription(desc string) { mustSet(b.b, HowToItemDescription, desc) }

// SetScore sets the reader score.
func (b *HowToItemBuilder) SetScore(score int64) { mustSet(b.b, HowToItemScore, score) }

// SetTags sets the item tags.
func (b *HowToItemBuilder) SetTags(tags value.TagSet) { mustSet(b.b, HowToItemTags, tags) }

// SetPublication sets the publication time.
func (b *HowToItemBuilder) SetPublication(at time.Time) { mustSet(b.b, HowToItemPublication, at) }

// SetComments sets the comment list. The builder keeps its own copy.
func (b *HowToItemBuilder) SetComments(c []value.Comment) { mustSet(b.b, HowToItemComments, c) }

// Set assigns a field by name for dynamic input.
func (b *HowToItemBuilder) Set(field string, v any) error { return b.b.Set(field, v) }

// HowToItem returns a snapshot of the item being built.
func (b *HowToItemBuilder) HowToItem() (HowToItem, error) { return b.b.Entity() }

// Dynamic exposes the untyped builder.
func (b *HowToItemBuilder) Dynamic() builder.Dynamic { return b.b }
