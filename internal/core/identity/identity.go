// Package identity resolves the acting principal from an already
// authenticated request context and checks ownership before mutations.
package identity

import (
	"context"

	"github.com/google/uuid"

	"Vidtube/internal/errs"
)

type contextKey string

const actorKey contextKey = "actor_id"

// Owned is implemented by every entity that has a single owning user.
type Owned interface {
	OwnerID() uuid.UUID
}

// WithActor returns a context carrying the verified actor id.
// Only the auth middleware and tests should call this.
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the actor id if the request is authenticated.
func ActorFrom(ctx context.Context) (uuid.UUID, bool) {
	actor, ok := ctx.Value(actorKey).(uuid.UUID)
	if !ok || actor == uuid.Nil {
		return uuid.Nil, false
	}
	return actor, true
}

// RequireActor returns the verified actor or an AuthenticationError.
func RequireActor(ctx context.Context) (uuid.UUID, error) {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return uuid.Nil, errs.Authentication("authentication required")
	}
	return actor, nil
}

// RequireOwnership fails with an AuthorizationError unless actor owns entity.
func RequireOwnership(entity Owned, actor uuid.UUID) error {
	if entity == nil || entity.OwnerID() != actor {
		return errs.Authorization("actor does not own this resource")
	}
	return nil
}

// OptionalActor returns a pointer to the actor id, or nil for anonymous
// requests. Listing endpoints use it to compute viewer-relative fields.
func OptionalActor(ctx context.Context) *uuid.UUID {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return nil
	}
	return &actor
}
