package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/feeds"
)

type commentRepo struct{ s *Store }

func cloneComment(c *comments.Comment) *comments.Comment {
	out := *c
	return &out
}

func (r *commentRepo) Create(ctx context.Context, c *comments.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.comments[c.ID] = cloneComment(c)
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id uuid.UUID) (*comments.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, comments.ErrCommentNotFound
	}
	return cloneComment(c), nil
}

func (r *commentRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.comments[id]
	return ok, nil
}

func (r *commentRepo) List(ctx context.Context, plan *feeds.Plan) ([]*comments.Comment, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*comments.Comment, 0, len(r.s.comments))
	for _, c := range r.s.comments {
		rows = append(rows, c)
	}
	page, total := feeds.Apply(rows, plan)

	out := make([]*comments.Comment, len(page))
	for i, c := range page {
		out[i] = cloneComment(c)
	}
	return out, total, nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id, owner uuid.UUID, content string, at time.Time) (*comments.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok || c.Owner != owner {
		return nil, comments.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = at
	return cloneComment(c), nil
}

func (r *commentRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok || c.Owner != owner {
		return comments.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}
