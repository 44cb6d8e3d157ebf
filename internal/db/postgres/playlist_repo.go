package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/playlists"
)

var playlistColumns = columnMap{
	playlists.FieldCreatedAt:   plainCol("created_at"),
	playlists.FieldUpdatedAt:   plainCol("updated_at"),
	playlists.FieldName:        textCol("name"),
	playlists.FieldDescription: textCol("description"),
	playlists.FieldVideos:      arrayCol("videos"),
	playlists.FieldOwner:       plainCol("owner_id"),
}

const (
	playlistFields         = `id, owner_id, name, description, videos, created_at, updated_at`
	playlistNameConstraint = "unique_playlist_owner_name"
)

type postgresPlaylistRepo struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PostgreSQL playlist repository
func NewPlaylistRepository(db *sql.DB) playlists.Repository {
	return &postgresPlaylistRepo{db: db}
}

func scanPlaylist(row rowScanner) (*playlists.Playlist, error) {
	var (
		p   playlists.Playlist
		ids []string
	)
	if err := row.Scan(&p.ID, &p.Owner, &p.Name, &p.Description, pq.Array(&ids), &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Videos, err = parseUUIDs(ids); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlaylistRepo) Create(ctx context.Context, p *playlists.Playlist) error {
	query := `
		INSERT INTO playlists (id, owner_id, name, description, videos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Owner, p.Name, p.Description, pq.Array(uuidStrings(p.Videos)), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, playlistNameConstraint) {
			return playlists.ErrDuplicateName
		}
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

func (r *postgresPlaylistRepo) GetByID(ctx context.Context, id uuid.UUID) (*playlists.Playlist, error) {
	p, err := scanPlaylist(r.db.QueryRowContext(ctx, `SELECT `+playlistFields+` FROM playlists WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, playlists.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return p, nil
}

func (r *postgresPlaylistRepo) List(ctx context.Context, plan *feeds.Plan) ([]*playlists.Playlist, int, error) {
	var out []*playlists.Playlist
	total, err := listPlan(ctx, r.db, "playlists", playlistFields, playlistColumns, plan, func(row rowScanner) error {
		p, err := scanPlaylist(row)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list playlists: %w", err)
	}
	return out, total, nil
}

// updateOne runs a conditional UPDATE ... RETURNING and maps no match to
// ErrPlaylistNotFound
func (r *postgresPlaylistRepo) updateOne(ctx context.Context, op, query string, args ...any) (*playlists.Playlist, error) {
	p, err := scanPlaylist(r.db.QueryRowContext(ctx, query+` RETURNING `+playlistFields, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, playlists.ErrPlaylistNotFound
	}
	if err != nil {
		if isUniqueViolation(err, playlistNameConstraint) {
			return nil, playlists.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return p, nil
}

func (r *postgresPlaylistRepo) Update(ctx context.Context, id, owner uuid.UUID, name, description string, at time.Time) (*playlists.Playlist, error) {
	return r.updateOne(ctx, "update playlist", `
		UPDATE playlists SET name = $3, description = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
	`, id, owner, name, description, at)
}

func (r *postgresPlaylistRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return requireRow(result, playlists.ErrPlaylistNotFound)
}

// AppendVideo adds the video only when it is not already in the list, as one
// conditional write
func (r *postgresPlaylistRepo) AppendVideo(ctx context.Context, id, owner, videoID uuid.UUID, at time.Time) (*playlists.Playlist, error) {
	return r.updateOne(ctx, "add video to playlist", `
		UPDATE playlists SET videos = array_append(videos, $3), updated_at = $4
		WHERE id = $1 AND owner_id = $2 AND NOT ($3 = ANY(videos))
	`, id, owner, videoID, at)
}

func (r *postgresPlaylistRepo) RemoveVideo(ctx context.Context, id, owner, videoID uuid.UUID, at time.Time) (*playlists.Playlist, error) {
	return r.updateOne(ctx, "remove video from playlist", `
		UPDATE playlists
		SET videos = array_remove(videos, $3),
			updated_at = CASE WHEN $3 = ANY(videos) THEN $4 ELSE updated_at END
		WHERE id = $1 AND owner_id = $2
	`, id, owner, videoID, at)
}
