package value

import (
	"time"

	"github.com/google/uuid"
)

// Comment is one reader comment attached to an entity.
type Comment struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Author   string    `json:"author" yaml:"author"`
	Body     string    `json:"body" yaml:"body"`
	PostedAt time.Time `json:"posted_at" yaml:"posted_at"`
}

// NewComment returns a comment with a fresh random ID.
func NewComment(author, body string, postedAt time.Time) Comment {
	return Comment{
		ID:       uuid.New(),
		Author:   author,
		Body:     body,
		PostedAt: postedAt,
	}
}

// Author identifies who wrote a blog post.
type Author struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email"`
}

// IsZero reports whether no author information is present.
func (a Author) IsZero() bool {
	return a == Author{}
}
