package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/videos"
)

var videoColumns = columnMap{
	videos.FieldCreatedAt:   plainCol("created_at"),
	videos.FieldUpdatedAt:   plainCol("updated_at"),
	videos.FieldLikes:       arrayCol("likes"),
	videos.FieldDislikes:    arrayCol("dislikes"),
	videos.FieldViews:       plainCol("views"),
	videos.FieldDuration:    plainCol("duration"),
	videos.FieldTitle:       textCol("title"),
	videos.FieldDescription: textCol("description"),
	videos.FieldCategory:    textCol("category"),
	videos.FieldTags:        arrayCol("tags"),
	videos.FieldOwner:       plainCol("owner_id"),
	videos.FieldIsPublished: plainCol("is_published"),
}

const videoFields = `id, owner_id, title, description, category,
	video_url, thumbnail_url, tags, duration, views,
	is_published, likes, dislikes, created_at, updated_at`

const videoSelect = `SELECT ` + videoFields + ` FROM videos`

type postgresVideoRepo struct {
	db *sql.DB
}

// NewVideoRepository creates a new PostgreSQL video repository
func NewVideoRepository(db *sql.DB) videos.Repository {
	return &postgresVideoRepo{db: db}
}

func scanVideo(row rowScanner) (*videos.Video, error) {
	var (
		v               videos.Video
		likes, dislikes []string
	)
	err := row.Scan(
		&v.ID, &v.Owner, &v.Title, &v.Description, &v.Category,
		&v.VideoURL, &v.ThumbnailURL, pq.Array(&v.Tags), &v.Duration, &v.Views,
		&v.IsPublished, pq.Array(&likes), pq.Array(&dislikes), &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if v.Likes, err = parseUUIDs(likes); err != nil {
		return nil, err
	}
	if v.Dislikes, err = parseUUIDs(dislikes); err != nil {
		return nil, err
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return &v, nil
}

func (r *postgresVideoRepo) Create(ctx context.Context, v *videos.Video) error {
	query := `
		INSERT INTO videos (
			id, owner_id, title, description, category,
			video_url, thumbnail_url, tags, duration, views,
			is_published, likes, dislikes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Owner, v.Title, v.Description, v.Category,
		v.VideoURL, v.ThumbnailURL, pq.Array(v.Tags), v.Duration, v.Views,
		v.IsPublished, pq.Array(uuidStrings(v.Likes)), pq.Array(uuidStrings(v.Dislikes)), v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (r *postgresVideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*videos.Video, error) {
	v, err := scanVideo(r.db.QueryRowContext(ctx, videoSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, videos.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return v, nil
}

func (r *postgresVideoRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*videos.Video, error) {
	out := make(map[uuid.UUID]*videos.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, videoSelect+` WHERE id = ANY($1)`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		out[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return out, nil
}

func (r *postgresVideoRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check video exists: %w", err)
	}
	return ok, nil
}

func (r *postgresVideoRepo) List(ctx context.Context, plan *feeds.Plan) ([]*videos.Video, int, error) {
	var out []*videos.Video
	total, err := listPlan(ctx, r.db, "videos", videoFields, videoColumns, plan, func(row rowScanner) error {
		v, err := scanVideo(row)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return out, total, nil
}

const videoReturning = ` RETURNING ` + videoFields

func (r *postgresVideoRepo) UpdateDetails(ctx context.Context, id, owner uuid.UUID, d videos.Details) (*videos.Video, error) {
	query := `
		UPDATE videos
		SET title = $3,
			description = $4,
			category = $5,
			tags = $6,
			thumbnail_url = COALESCE(NULLIF($7, ''), thumbnail_url),
			updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	` + videoReturning

	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id, owner, d.Title, d.Description, d.Category, pq.Array(d.Tags), d.ThumbnailURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, videos.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return v, nil
}

func (r *postgresVideoRepo) TogglePublished(ctx context.Context, id, owner uuid.UUID) (*videos.Video, error) {
	query := `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	` + videoReturning

	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, videos.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle video publish status: %w", err)
	}
	return v, nil
}

// Delete removes the video; comments follow through ON DELETE CASCADE
func (r *postgresVideoRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return requireRow(result, videos.ErrVideoNotFound)
}

// AddReactor appends actor to the counter set unless already present
func (r *postgresVideoRepo) AddReactor(ctx context.Context, videoID uuid.UUID, kind reactions.Kind, actor uuid.UUID) error {
	col := counterColumn(kind)
	query := fmt.Sprintf(`
		UPDATE videos
		SET %[1]s = CASE WHEN $2 = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, $2) END
		WHERE id = $1
	`, col)
	result, err := r.db.ExecContext(ctx, query, videoID, actor)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", col, err)
	}
	return requireRow(result, videos.ErrVideoNotFound)
}

func (r *postgresVideoRepo) RemoveReactor(ctx context.Context, videoID uuid.UUID, kind reactions.Kind, actor uuid.UUID) error {
	col := counterColumn(kind)
	query := fmt.Sprintf(`UPDATE videos SET %[1]s = array_remove(%[1]s, $2) WHERE id = $1`, col)
	result, err := r.db.ExecContext(ctx, query, videoID, actor)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", col, err)
	}
	return requireRow(result, videos.ErrVideoNotFound)
}

// counterColumn maps a kind onto a fixed column name, never onto input
func counterColumn(kind reactions.Kind) string {
	if kind == reactions.KindDislike {
		return "dislikes"
	}
	return "likes"
}

func (r *postgresVideoRepo) SetReactors(ctx context.Context, id uuid.UUID, likes, dislikes []uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE videos SET likes = $2, dislikes = $3 WHERE id = $1`,
		id, pq.Array(uuidStrings(likes)), pq.Array(uuidStrings(dislikes)))
	if err != nil {
		return fmt.Errorf("failed to set video reactors: %w", err)
	}
	return requireRow(result, videos.ErrVideoNotFound)
}

func (r *postgresVideoRepo) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM videos WHERE id > $1 ORDER BY id LIMIT $2`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list video ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan video id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video ids: %w", err)
	}
	return ids, nil
}
