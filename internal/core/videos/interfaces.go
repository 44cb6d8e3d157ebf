package videos

import (
	"context"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/users"
)

// Service defines video metadata and feed operations
type Service interface {
	Publish(ctx context.Context, req PublishRequest) (*Video, error)

	// Get returns the video with its owner projection. Unpublished videos
	// are visible to their owner only.
	Get(ctx context.Context, id uuid.UUID) (*View, error)

	// List returns a feed page. rawOwner scopes the feed to one channel when
	// set; viewers other than that owner only see published videos.
	List(ctx context.Context, rawOwner string, spec feeds.RawSpec) (feeds.Page[View], error)

	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Video, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TogglePublish(ctx context.Context, id uuid.UUID) (*Video, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository defines video persistence. It also maintains the counter sets
// and therefore satisfies reactions.CounterStore.
type Repository interface {
	reactions.CounterStore

	Create(ctx context.Context, v *Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*Video, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Video, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, plan *feeds.Plan) ([]*Video, int, error)

	// UpdateDetails, TogglePublished and Delete only touch a row matching
	// both id and owner; otherwise they return ErrVideoNotFound
	UpdateDetails(ctx context.Context, id, owner uuid.UUID, d Details) (*Video, error)
	TogglePublished(ctx context.Context, id, owner uuid.UUID) (*Video, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error

	// SetReactors replaces both counter sets, used by the counter repair tool
	SetReactors(ctx context.Context, id uuid.UUID, likes, dislikes []uuid.UUID) error

	// ListIDs pages through every video id in id order, starting after after
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

// ProfileSource resolves owner projections; users.Service implements it
type ProfileSource interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}
