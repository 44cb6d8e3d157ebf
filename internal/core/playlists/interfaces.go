package playlists

import (
	"context"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/users"
	"Vidtube/internal/core/videos"
)

// Service defines playlist operations
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Playlist, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, spec feeds.RawSpec) (feeds.Page[Summary], error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Playlist, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*Playlist, error)
}

// Repository defines playlist persistence. Every mutation is a single
// conditional write on (id, owner) that returns ErrPlaylistNotFound when it
// matched nothing.
type Repository interface {
	// Create returns ErrDuplicateName when the owner already uses the name
	Create(ctx context.Context, p *Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Playlist, error)
	List(ctx context.Context, plan *feeds.Plan) ([]*Playlist, int, error)
	Update(ctx context.Context, id, owner uuid.UUID, name, description string, at time.Time) (*Playlist, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error

	// AppendVideo also matches nothing when the video is already present
	AppendVideo(ctx context.Context, id, owner, videoID uuid.UUID, at time.Time) (*Playlist, error)
	RemoveVideo(ctx context.Context, id, owner, videoID uuid.UUID, at time.Time) (*Playlist, error)
}

// VideoSource loads the videos a playlist refers to; videos.Repository implements it
type VideoSource interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*videos.Video, error)
}

// ProfileSource resolves the owner projection
type ProfileSource interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}
