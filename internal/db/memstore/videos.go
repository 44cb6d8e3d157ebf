package memstore

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/videos"
)

type videoRepo struct{ s *Store }

func cloneVideo(v *videos.Video) *videos.Video {
	c := *v
	c.Tags = cloneStrings(v.Tags)
	c.Likes = cloneIDs(v.Likes)
	c.Dislikes = cloneIDs(v.Dislikes)
	return &c
}

func (r *videoRepo) Create(ctx context.Context, v *videos.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.videos[v.ID] = cloneVideo(v)
	return nil
}

func (r *videoRepo) GetByID(ctx context.Context, id uuid.UUID) (*videos.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, videos.ErrVideoNotFound
	}
	return cloneVideo(v), nil
}

func (r *videoRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*videos.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[uuid.UUID]*videos.Video, len(ids))
	for _, id := range ids {
		if v, ok := r.s.videos[id]; ok {
			out[id] = cloneVideo(v)
		}
	}
	return out, nil
}

func (r *videoRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.videos[id]
	return ok, nil
}

func (r *videoRepo) List(ctx context.Context, plan *feeds.Plan) ([]*videos.Video, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*videos.Video, 0, len(r.s.videos))
	for _, v := range r.s.videos {
		rows = append(rows, v)
	}
	page, total := feeds.Apply(rows, plan)

	out := make([]*videos.Video, len(page))
	for i, v := range page {
		out[i] = cloneVideo(v)
	}
	return out, total, nil
}

// owned returns the stored video when it matches both id and owner.
// Callers must hold the write lock.
func (r *videoRepo) owned(id, owner uuid.UUID) (*videos.Video, error) {
	v, ok := r.s.videos[id]
	if !ok || v.Owner != owner {
		return nil, videos.ErrVideoNotFound
	}
	return v, nil
}

func (r *videoRepo) UpdateDetails(ctx context.Context, id, owner uuid.UUID, d videos.Details) (*videos.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	v.Title = d.Title
	v.Description = d.Description
	v.Category = d.Category
	v.Tags = cloneStrings(d.Tags)
	if d.ThumbnailURL != "" {
		v.ThumbnailURL = d.ThumbnailURL
	}
	v.UpdatedAt = time.Now().UTC()
	return cloneVideo(v), nil
}

func (r *videoRepo) TogglePublished(ctx context.Context, id, owner uuid.UUID) (*videos.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = time.Now().UTC()
	return cloneVideo(v), nil
}

// Delete removes the video and its comments, like the Postgres cascade
func (r *videoRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.owned(id, owner); err != nil {
		return err
	}
	delete(r.s.videos, id)
	for cid, c := range r.s.comments {
		if c.Video == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *videoRepo) AddReactor(ctx context.Context, videoID uuid.UUID, kind reactions.Kind, actor uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[videoID]
	if !ok {
		return videos.ErrVideoNotFound
	}
	set := counterSet(v, kind)
	if !containsID(*set, actor) {
		*set = append(*set, actor)
	}
	return nil
}

func (r *videoRepo) RemoveReactor(ctx context.Context, videoID uuid.UUID, kind reactions.Kind, actor uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[videoID]
	if !ok {
		return videos.ErrVideoNotFound
	}
	set := counterSet(v, kind)
	*set = removeID(*set, actor)
	return nil
}

func counterSet(v *videos.Video, kind reactions.Kind) *[]uuid.UUID {
	if kind == reactions.KindDislike {
		return &v.Dislikes
	}
	return &v.Likes
}

func (r *videoRepo) SetReactors(ctx context.Context, id uuid.UUID, likes, dislikes []uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[id]
	if !ok {
		return videos.ErrVideoNotFound
	}
	v.Likes = cloneIDs(likes)
	v.Dislikes = cloneIDs(dislikes)
	return nil
}

func (r *videoRepo) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(r.s.videos))
	for id := range r.s.videos {
		if bytes.Compare(id[:], after[:]) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
