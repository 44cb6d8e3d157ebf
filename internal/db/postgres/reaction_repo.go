package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
)

type postgresReactionRepo struct {
	db *sql.DB
}

// NewReactionRepository creates a new PostgreSQL reaction ledger repository.
// The unique_actor_target constraint spans both kinds, so the table itself
// enforces one reaction per (actor, target).
func NewReactionRepository(db *sql.DB) reactions.Repository {
	return &postgresReactionRepo{db: db}
}

func (r *postgresReactionRepo) GetByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (*reactions.Reaction, error) {
	query := `
		SELECT id, kind, created_at
		FROM reactions
		WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3
	`
	rx := reactions.Reaction{Actor: actor, Target: target}
	err := r.db.QueryRowContext(ctx, query, actor, string(target.Kind()), target.ID()).Scan(&rx.ID, &rx.Kind, &rx.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reactions.ErrReactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}
	return &rx, nil
}

func (r *postgresReactionRepo) CountByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (int, error) {
	query := `
		SELECT COUNT(*) FROM reactions
		WHERE actor_id = $1 AND target_kind = $2 AND target_id = $3
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, actor, string(target.Kind()), target.ID()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return n, nil
}

// Insert creates the reaction. ON CONFLICT DO NOTHING makes a concurrent
// insert for the same pair a zero-row write, reported as ErrStale.
func (r *postgresReactionRepo) Insert(ctx context.Context, rx *reactions.Reaction) error {
	query := `
		INSERT INTO reactions (id, actor_id, target_kind, target_id, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (actor_id, target_kind, target_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		rx.ID, rx.Actor, string(rx.Target.Kind()), rx.Target.ID(), string(rx.Kind), rx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}
	return requireRow(result, reactions.ErrStale)
}

func (r *postgresReactionRepo) DeleteIfKind(ctx context.Context, id uuid.UUID, kind reactions.Kind) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return requireRow(result, reactions.ErrStale)
}

func (r *postgresReactionRepo) SwitchKind(ctx context.Context, id uuid.UUID, from, to reactions.Kind) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reactions SET kind = $3 WHERE id = $1 AND kind = $2`, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to switch reaction: %w", err)
	}
	return requireRow(result, reactions.ErrStale)
}

// refArgs splits refs into parallel kind and id arrays for unnest
func refArgs(refs []targets.Ref) (kinds, ids []string) {
	kinds = make([]string, len(refs))
	ids = make([]string, len(refs))
	for i, ref := range refs {
		kinds[i] = string(ref.Kind())
		ids[i] = ref.ID().String()
	}
	return kinds, ids
}

func scanRef(kind string, id uuid.UUID) (targets.Ref, error) {
	return targets.New(targets.Kind(kind), id)
}

func (r *postgresReactionRepo) CountByTargets(ctx context.Context, refs []targets.Ref) (map[targets.Ref]reactions.Counts, error) {
	out := make(map[targets.Ref]reactions.Counts, len(refs))
	for _, ref := range refs {
		out[ref] = reactions.Counts{}
	}
	if len(refs) == 0 {
		return out, nil
	}

	kinds, ids := refArgs(refs)
	query := `
		SELECT r.target_kind, r.target_id,
			COUNT(*) FILTER (WHERE r.kind = 'like'),
			COUNT(*) FILTER (WHERE r.kind = 'dislike')
		FROM reactions r
		JOIN unnest($1::text[], $2::uuid[]) AS t(kind, id)
			ON r.target_kind = t.kind AND r.target_id = t.id
		GROUP BY r.target_kind, r.target_id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(kinds), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			kind string
			id   uuid.UUID
			c    reactions.Counts
		)
		if err := rows.Scan(&kind, &id, &c.Likes, &c.Dislikes); err != nil {
			return nil, fmt.Errorf("failed to scan reaction counts: %w", err)
		}
		ref, err := scanRef(kind, id)
		if err != nil {
			return nil, err
		}
		out[ref] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reaction counts: %w", err)
	}
	return out, nil
}

func (r *postgresReactionRepo) KindsByActor(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]reactions.Kind, error) {
	out := make(map[targets.Ref]reactions.Kind)
	if len(refs) == 0 {
		return out, nil
	}

	kinds, ids := refArgs(refs)
	query := `
		SELECT r.target_kind, r.target_id, r.kind
		FROM reactions r
		JOIN unnest($2::text[], $3::uuid[]) AS t(kind, id)
			ON r.target_kind = t.kind AND r.target_id = t.id
		WHERE r.actor_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, actor, pq.Array(kinds), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer reactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			kind, rk string
			id       uuid.UUID
		)
		if err := rows.Scan(&kind, &id, &rk); err != nil {
			return nil, fmt.Errorf("failed to scan viewer reaction: %w", err)
		}
		ref, err := scanRef(kind, id)
		if err != nil {
			return nil, err
		}
		out[ref] = reactions.Kind(rk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating viewer reactions: %w", err)
	}
	return out, nil
}

func (r *postgresReactionRepo) ActorsByTarget(ctx context.Context, target targets.Ref) ([]uuid.UUID, []uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT actor_id, kind FROM reactions WHERE target_kind = $1 AND target_id = $2 ORDER BY created_at, id`,
		string(target.Kind()), target.ID())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reactors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var likes, dislikes []uuid.UUID
	for rows.Next() {
		var (
			actor uuid.UUID
			kind  string
		)
		if err := rows.Scan(&actor, &kind); err != nil {
			return nil, nil, fmt.Errorf("failed to scan reactor: %w", err)
		}
		if reactions.Kind(kind) == reactions.KindDislike {
			dislikes = append(dislikes, actor)
		} else {
			likes = append(likes, actor)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating reactors: %w", err)
	}
	return likes, dislikes, nil
}
