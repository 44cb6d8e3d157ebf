package subscriptions

import (
	"context"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/users"
)

// Service defines subscription operations. Viewer-relative fields use the
// optional actor on ctx.
type Service interface {
	Toggle(ctx context.Context, channelID uuid.UUID) (*ToggleResult, error)
	ListSubscribers(ctx context.Context, channelID uuid.UUID, spec feeds.RawSpec) (feeds.Page[Entry], error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, spec feeds.RawSpec) (feeds.Page[Entry], error)
	ChannelProfile(ctx context.Context, channelID uuid.UUID) (*ChannelProfile, error)
}

// Repository defines subscription persistence. The store keeps at most one
// row per (subscriber, channel).
type Repository interface {
	Insert(ctx context.Context, s *Subscription) error
	Delete(ctx context.Context, subscriber, channel uuid.UUID) error
	List(ctx context.Context, plan *feeds.Plan) ([]*Subscription, int, error)
	CountSubscribers(ctx context.Context, channel uuid.UUID) (int, error)
	CountSubscribed(ctx context.Context, subscriber uuid.UUID) (int, error)

	// SubscribedAmong returns the subset of channels the subscriber follows
	SubscribedAmong(ctx context.Context, subscriber uuid.UUID, channels []uuid.UUID) (map[uuid.UUID]bool, error)
}

// UserSource checks channels and resolves profiles; users.Service implements it
type UserSource interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}

// Recorder receives toggle outcomes
type Recorder interface {
	ObserveSubscription(outcome string)
}
