package reactions

import (
	"context"

	"github.com/google/uuid"

	"Vidtube/internal/core/targets"
)

// Service defines the reaction ledger operations
type Service interface {
	// Toggle adds, removes or switches the actor's reaction on target.
	//   - No reaction -> create kind (added)
	//   - Same kind -> delete (removed)
	//   - Opposite kind -> replace with kind (switched)
	// Concurrent toggles on the same pair are serialized through conditional
	// writes; a pair that keeps changing under us fails with ConflictError.
	Toggle(ctx context.Context, actor uuid.UUID, target targets.Ref, kind Kind) (*ToggleResult, error)

	// GetState returns the actor's current reaction kind, or "" when none
	GetState(ctx context.Context, actor uuid.UUID, target targets.Ref) (Kind, error)

	// Counts returns live like/dislike totals for each target
	Counts(ctx context.Context, refs []targets.Ref) (map[targets.Ref]Counts, error)

	// ViewerStates returns the actor's reaction kind for each target that has one
	ViewerStates(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]Kind, error)
}

// Repository is the reaction ledger store. The store guarantees at most one
// row per (actor, target) regardless of kind; every write below is
// conditional and reports ErrStale instead of overwriting a concurrent change.
type Repository interface {
	// GetByActorAndTarget returns ErrReactionNotFound when the pair has no reaction
	GetByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (*Reaction, error)

	// CountByActorAndTarget counts rows for the pair across both kinds
	CountByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (int, error)

	// Insert creates the reaction, or returns ErrStale if the pair already has one
	Insert(ctx context.Context, r *Reaction) error

	// DeleteIfKind deletes the reaction only if it still has the given kind
	DeleteIfKind(ctx context.Context, id uuid.UUID, kind Kind) error

	// SwitchKind flips the reaction from one kind to the other in a single write
	SwitchKind(ctx context.Context, id uuid.UUID, from, to Kind) error

	// CountByTargets aggregates live counts for many targets in one call
	CountByTargets(ctx context.Context, refs []targets.Ref) (map[targets.Ref]Counts, error)

	// KindsByActor returns the actor's reaction kind per target
	KindsByActor(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]Kind, error)

	// ActorsByTarget lists actor ids per kind, used to rebuild video counter sets
	ActorsByTarget(ctx context.Context, target targets.Ref) (likes, dislikes []uuid.UUID, err error)
}

// CounterStore maintains the like/dislike actor sets denormalized on videos.
// Add and remove are set operations, so replaying them is harmless.
type CounterStore interface {
	AddReactor(ctx context.Context, videoID uuid.UUID, kind Kind, actor uuid.UUID) error
	RemoveReactor(ctx context.Context, videoID uuid.UUID, kind Kind, actor uuid.UUID) error
}

// TargetChecker confirms a target still exists right before a ledger write
type TargetChecker interface {
	Check(ctx context.Context, ref targets.Ref) error
}

// Recorder receives toggle outcomes; *metrics.Metrics implements it
type Recorder interface {
	ObserveToggle(target, outcome string)
	ToggleRetried()
}
