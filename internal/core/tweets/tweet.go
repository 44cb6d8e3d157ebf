package tweets

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
	FieldOwner     = "owner"
	FieldContent   = "content"
)

// Collection is the tweet-timeline configuration
var Collection = &feeds.Collection{
	Name: "tweets",
	Sortable: map[string]feeds.SortField{
		FieldCreatedAt: {Field: FieldCreatedAt},
		FieldUpdatedAt: {Field: FieldUpdatedAt},
	},
	DefaultSort:      FieldCreatedAt,
	DefaultDirection: feeds.Asc,
	TextFields:       []string{FieldContent},
}

// Tweet is a short text update owned by one user
type Tweet struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Content   string    `json:"content"`
	ID        uuid.UUID `json:"id"`
	Owner     uuid.UUID `json:"owner"`
}

func (t *Tweet) OwnerID() uuid.UUID { return t.Owner }

func (t *Tweet) RowID() uuid.UUID { return t.ID }

func (t *Tweet) Value(field string) any {
	switch field {
	case FieldCreatedAt:
		return t.CreatedAt
	case FieldUpdatedAt:
		return t.UpdatedAt
	case FieldOwner:
		return t.Owner
	case FieldContent:
		return t.Content
	}
	return nil
}

// View is a tweet with its owner projection and live reaction counts
type View struct {
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Owner          users.Profile  `json:"owner"`
	Content        string         `json:"content"`
	ViewerReaction reactions.Kind `json:"viewerReaction,omitempty"`
	Likes          int            `json:"likes"`
	Dislikes       int            `json:"dislikes"`
	ID             uuid.UUID      `json:"id"`
}
