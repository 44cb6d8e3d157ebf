package tweets

import (
	"context"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/users"
)

// Service defines tweet operations
type Service interface {
	Create(ctx context.Context, content string) (*Tweet, error)
	Update(ctx context.Context, tweetID uuid.UUID, content string) (*Tweet, error)
	Delete(ctx context.Context, tweetID uuid.UUID) error
	ListForOwner(ctx context.Context, ownerID uuid.UUID, spec feeds.RawSpec) (feeds.Page[View], error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository defines tweet persistence
type Repository interface {
	Create(ctx context.Context, t *Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tweet, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, plan *feeds.Plan) ([]*Tweet, int, error)

	// UpdateContent and Delete only touch a row matching both id and owner;
	// otherwise they return ErrTweetNotFound
	UpdateContent(ctx context.Context, id, owner uuid.UUID, content string, at time.Time) (*Tweet, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error
}

// UserChecker confirms the timeline owner exists
type UserChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}

// ReactionSource provides live counts and viewer state
type ReactionSource interface {
	Counts(ctx context.Context, refs []targets.Ref) (map[targets.Ref]reactions.Counts, error)
	ViewerStates(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]reactions.Kind, error)
}
