package memstore

import (
	"context"

	"github.com/google/uuid"

	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
)

// reactionRepo keys rows by (actor, target), so the store itself cannot
// hold two reactions for one pair.
type reactionRepo struct{ s *Store }

func (r *reactionRepo) GetByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (*reactions.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rx, ok := r.s.reactions[reactionKey{actor: actor, target: target}]
	if !ok {
		return nil, reactions.ErrReactionNotFound
	}
	c := *rx
	return &c, nil
}

func (r *reactionRepo) CountByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.reactions[reactionKey{actor: actor, target: target}]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *reactionRepo) Insert(ctx context.Context, rx *reactions.Reaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := reactionKey{actor: rx.Actor, target: rx.Target}
	if _, ok := r.s.reactions[key]; ok {
		return reactions.ErrStale
	}
	c := *rx
	r.s.reactions[key] = &c
	r.s.reactionIDs[rx.ID] = key
	return nil
}

func (r *reactionRepo) DeleteIfKind(ctx context.Context, id uuid.UUID, kind reactions.Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key, ok := r.s.reactionIDs[id]
	if !ok || r.s.reactions[key].Kind != kind {
		return reactions.ErrStale
	}
	delete(r.s.reactions, key)
	delete(r.s.reactionIDs, id)
	return nil
}

func (r *reactionRepo) SwitchKind(ctx context.Context, id uuid.UUID, from, to reactions.Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key, ok := r.s.reactionIDs[id]
	if !ok || r.s.reactions[key].Kind != from {
		return reactions.ErrStale
	}
	r.s.reactions[key].Kind = to
	return nil
}

func (r *reactionRepo) CountByTargets(ctx context.Context, refs []targets.Ref) (map[targets.Ref]reactions.Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[targets.Ref]bool, len(refs))
	out := make(map[targets.Ref]reactions.Counts, len(refs))
	for _, ref := range refs {
		wanted[ref] = true
		out[ref] = reactions.Counts{}
	}
	for key, rx := range r.s.reactions {
		if !wanted[key.target] {
			continue
		}
		c := out[key.target]
		c.Add(rx.Kind)
		out[key.target] = c
	}
	return out, nil
}

func (r *reactionRepo) KindsByActor(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]reactions.Kind, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[targets.Ref]reactions.Kind)
	for _, ref := range refs {
		if rx, ok := r.s.reactions[reactionKey{actor: actor, target: ref}]; ok {
			out[ref] = rx.Kind
		}
	}
	return out, nil
}

func (r *reactionRepo) ActorsByTarget(ctx context.Context, target targets.Ref) ([]uuid.UUID, []uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var likes, dislikes []uuid.UUID
	for key, rx := range r.s.reactions {
		if key.target != target {
			continue
		}
		if rx.Kind == reactions.KindDislike {
			dislikes = append(dislikes, key.actor)
		} else {
			likes = append(likes, key.actor)
		}
	}
	return likes, dislikes, nil
}
