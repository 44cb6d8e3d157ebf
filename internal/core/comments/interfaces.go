package comments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/users"
)

// Service defines comment operations
type Service interface {
	Create(ctx context.Context, videoID uuid.UUID, content string) (*Comment, error)
	Update(ctx context.Context, commentID uuid.UUID, content string) (*Comment, error)
	Delete(ctx context.Context, commentID uuid.UUID) error
	ListForVideo(ctx context.Context, videoID uuid.UUID, spec feeds.RawSpec) (feeds.Page[View], error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// VideoOf returns the owning video of a comment; found is false when the
	// comment does not exist
	VideoOf(ctx context.Context, id uuid.UUID) (videoID uuid.UUID, found bool, err error)
}

// Repository defines comment persistence
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, plan *feeds.Plan) ([]*Comment, int, error)

	// UpdateContent and Delete only touch a row matching both id and owner;
	// otherwise they return ErrCommentNotFound
	UpdateContent(ctx context.Context, id, owner uuid.UUID, content string, at time.Time) (*Comment, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error
}

// VideoChecker confirms the parent video exists
type VideoChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProfileSource resolves owner projections
type ProfileSource interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}

// ReactionSource provides live counts and viewer state; reactions.Service
// implements it
type ReactionSource interface {
	Counts(ctx context.Context, refs []targets.Ref) (map[targets.Ref]reactions.Counts, error)
	ViewerStates(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]reactions.Kind, error)
}
