package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/playlists"
)

type playlistRepo struct{ s *Store }

func clonePlaylist(p *playlists.Playlist) *playlists.Playlist {
	c := *p
	c.Videos = cloneIDs(p.Videos)
	return &c
}

// nameTaken reports whether owner already has another playlist called name.
// Callers must hold the lock.
func (r *playlistRepo) nameTaken(owner, except uuid.UUID, name string) bool {
	for _, p := range r.s.playlists {
		if p.Owner == owner && p.ID != except && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *playlistRepo) Create(ctx context.Context, p *playlists.Playlist) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(p.Owner, p.ID, p.Name) {
		return playlists.ErrDuplicateName
	}
	r.s.playlists[p.ID] = clonePlaylist(p)
	return nil
}

func (r *playlistRepo) GetByID(ctx context.Context, id uuid.UUID) (*playlists.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return nil, playlists.ErrPlaylistNotFound
	}
	return clonePlaylist(p), nil
}

func (r *playlistRepo) List(ctx context.Context, plan *feeds.Plan) ([]*playlists.Playlist, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*playlists.Playlist, 0, len(r.s.playlists))
	for _, p := range r.s.playlists {
		rows = append(rows, p)
	}
	page, total := feeds.Apply(rows, plan)

	out := make([]*playlists.Playlist, len(page))
	for i, p := range page {
		out[i] = clonePlaylist(p)
	}
	return out, total, nil
}

func (r *playlistRepo) owned(id, owner uuid.UUID) (*playlists.Playlist, error) {
	p, ok := r.s.playlists[id]
	if !ok || p.Owner != owner {
		return nil, playlists.ErrPlaylistNotFound
	}
	return p, nil
}

func (r *playlistRepo) Update(ctx context.Context, id, owner uuid.UUID, name, description string, at time.Time) (*playlists.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	if r.nameTaken(owner, id, name) {
		return nil, playlists.ErrDuplicateName
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = at
	return clonePlaylist(p), nil
}

func (r *playlistRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.owned(id, owner); err != nil {
		return err
	}
	delete(r.s.playlists, id)
	return nil
}

func (r *playlistRepo) AppendVideo(ctx context.Context, id, owner, videoID uuid.UUID, at time.Time) (*playlists.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	if p.Contains(videoID) {
		return nil, playlists.ErrPlaylistNotFound
	}
	p.Videos = append(p.Videos, videoID)
	p.UpdatedAt = at
	return clonePlaylist(p), nil
}

func (r *playlistRepo) RemoveVideo(ctx context.Context, id, owner, videoID uuid.UUID, at time.Time) (*playlists.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	if p.Contains(videoID) {
		p.Videos = removeID(p.Videos, videoID)
		p.UpdatedAt = at
	}
	return clonePlaylist(p), nil
}
