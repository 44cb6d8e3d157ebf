// Package counters rebuilds the like/dislike actor sets stored on videos from
// the reaction ledger. The ledger is authoritative; the sets are a
// denormalized copy that toggles keep up to date best-effort.
package counters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/videos"
)

const defaultBatchSize = 200

// Ledger lists the actors per kind for a target; reactions.Repository implements it
type Ledger interface {
	ActorsByTarget(ctx context.Context, target targets.Ref) (likes, dislikes []uuid.UUID, err error)
}

// Videos is the slice of videos.Repository the repair walks
type Videos interface {
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*videos.Video, error)
	SetReactors(ctx context.Context, id uuid.UUID, likes, dislikes []uuid.UUID) error
}

// Drift describes one video whose stored sets disagreed with the ledger
type Drift struct {
	Video          uuid.UUID
	StoredLikes    int
	StoredDislikes int
	LedgerLikes    int
	LedgerDislikes int
}

// Report summarizes a repair pass
type Report struct {
	Drifted []Drift
	Scanned int
	Fixed   int
}

// Repairer walks every video in id order
type Repairer struct {
	ledger    Ledger
	videos    Videos
	logger    *slog.Logger
	batchSize int
}

// NewRepairer creates a repairer. batchSize <= 0 uses the default.
func NewRepairer(ledger Ledger, vids Videos, batchSize int, logger *slog.Logger) *Repairer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repairer{ledger: ledger, videos: vids, batchSize: batchSize, logger: logger}
}

// Run compares every video's sets against the ledger and, unless dryRun,
// overwrites the ones that drifted
func (r *Repairer) Run(ctx context.Context, dryRun bool) (*Report, error) {
	report := &Report{}
	after := uuid.Nil

	for {
		ids, err := r.videos.ListIDs(ctx, after, r.batchSize)
		if err != nil {
			return report, fmt.Errorf("failed to list videos after %s: %w", after, err)
		}
		if len(ids) == 0 {
			return report, nil
		}

		for _, id := range ids {
			if err := r.repairOne(ctx, id, dryRun, report); err != nil {
				return report, err
			}
		}
		after = ids[len(ids)-1]
	}
}

func (r *Repairer) repairOne(ctx context.Context, id uuid.UUID, dryRun bool, report *Report) error {
	v, err := r.videos.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load video %s: %w", id, err)
	}
	likes, dislikes, err := r.ledger.ActorsByTarget(ctx, targets.Video(id))
	if err != nil {
		return fmt.Errorf("failed to read ledger for video %s: %w", id, err)
	}
	report.Scanned++

	if sameSet(v.Likes, likes) && sameSet(v.Dislikes, dislikes) {
		return nil
	}

	report.Drifted = append(report.Drifted, Drift{
		Video:          id,
		StoredLikes:    len(v.Likes),
		StoredDislikes: len(v.Dislikes),
		LedgerLikes:    len(likes),
		LedgerDislikes: len(dislikes),
	})
	r.logger.Info("counter drift",
		"video", id,
		"stored_likes", len(v.Likes),
		"ledger_likes", len(likes),
		"stored_dislikes", len(v.Dislikes),
		"ledger_dislikes", len(dislikes),
		"dry_run", dryRun)

	if dryRun {
		return nil
	}
	if err := r.videos.SetReactors(ctx, id, likes, dislikes); err != nil {
		return fmt.Errorf("failed to rewrite counters for video %s: %w", id, err)
	}
	report.Fixed++
	return nil
}

// sameSet compares two duplicate-free id lists ignoring order
func sameSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

var _ Ledger = reactions.Repository(nil)
