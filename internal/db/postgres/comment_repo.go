package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/feeds"
)

var commentColumns = columnMap{
	comments.FieldCreatedAt: plainCol("created_at"),
	comments.FieldUpdatedAt: plainCol("updated_at"),
	comments.FieldVideo:     plainCol("video_id"),
	comments.FieldOwner:     plainCol("owner_id"),
	comments.FieldContent:   textCol("content"),
}

const commentFields = `id, video_id, owner_id, content, created_at, updated_at`

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

func scanComment(row rowScanner) (*comments.Comment, error) {
	var c comments.Comment
	if err := row.Scan(&c.ID, &c.Video, &c.Owner, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresCommentRepo) Create(ctx context.Context, c *comments.Comment) error {
	query := `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Video, c.Owner, c.Content, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *postgresCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*comments.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentFields+` FROM comments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *postgresCommentRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check comment exists: %w", err)
	}
	return ok, nil
}

func (r *postgresCommentRepo) List(ctx context.Context, plan *feeds.Plan) ([]*comments.Comment, int, error) {
	var out []*comments.Comment
	total, err := listPlan(ctx, r.db, "comments", commentFields, commentColumns, plan, func(row rowScanner) error {
		c, err := scanComment(row)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return out, total, nil
}

func (r *postgresCommentRepo) UpdateContent(ctx context.Context, id, owner uuid.UUID, content string, at time.Time) (*comments.Comment, error) {
	query := `
		UPDATE comments SET content = $3, updated_at = $4
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + commentFields
	c, err := scanComment(r.db.QueryRowContext(ctx, query, id, owner, content, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return c, nil
}

func (r *postgresCommentRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return requireRow(result, comments.ErrCommentNotFound)
}
