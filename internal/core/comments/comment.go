package comments

import (
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/users"
)

const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldVideo     = "video"
	FieldOwner     = "owner"
	FieldContent   = "content"
)

// Collection is the comment-thread configuration
var Collection = &feeds.Collection{
	Name: "comments",
	Sortable: map[string]feeds.SortField{
		FieldCreatedAt: {Field: FieldCreatedAt},
		FieldUpdatedAt: {Field: FieldUpdatedAt},
	},
	DefaultSort:      FieldCreatedAt,
	DefaultDirection: feeds.Asc,
	TextFields:       []string{FieldContent},
}

// Comment belongs to exactly one video for its whole life
type Comment struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Content   string    `json:"content"`
	ID        uuid.UUID `json:"id"`
	Video     uuid.UUID `json:"video"`
	Owner     uuid.UUID `json:"owner"`
}

func (c *Comment) OwnerID() uuid.UUID { return c.Owner }

func (c *Comment) RowID() uuid.UUID { return c.ID }

func (c *Comment) Value(field string) any {
	switch field {
	case FieldCreatedAt:
		return c.CreatedAt
	case FieldUpdatedAt:
		return c.UpdatedAt
	case FieldVideo:
		return c.Video
	case FieldOwner:
		return c.Owner
	case FieldContent:
		return c.Content
	}
	return nil
}

// View is a comment with its owner projection and live reaction counts
type View struct {
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Owner          users.Profile  `json:"owner"`
	Content        string         `json:"content"`
	ViewerReaction reactions.Kind `json:"viewerReaction,omitempty"`
	Likes          int            `json:"likes"`
	Dislikes       int            `json:"dislikes"`
	ID             uuid.UUID      `json:"id"`
	Video          uuid.UUID      `json:"video"`
}
