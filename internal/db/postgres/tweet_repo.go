package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/tweets"
)

var tweetColumns = columnMap{
	tweets.FieldCreatedAt: plainCol("created_at"),
	tweets.FieldUpdatedAt: plainCol("updated_at"),
	tweets.FieldOwner:     plainCol("owner_id"),
	tweets.FieldContent:   textCol("content"),
}

const tweetFields = `id, owner_id, content, created_at, updated_at`

type postgresTweetRepo struct {
	db *sql.DB
}

// NewTweetRepository creates a new PostgreSQL tweet repository
func NewTweetRepository(db *sql.DB) tweets.Repository {
	return &postgresTweetRepo{db: db}
}

func scanTweet(row rowScanner) (*tweets.Tweet, error) {
	var t tweets.Tweet
	if err := row.Scan(&t.ID, &t.Owner, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTweetRepo) Create(ctx context.Context, t *tweets.Tweet) error {
	query := `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Owner, t.Content, t.CreatedAt, t.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert tweet: %w", err)
	}
	return nil
}

func (r *postgresTweetRepo) GetByID(ctx context.Context, id uuid.UUID) (*tweets.Tweet, error) {
	t, err := scanTweet(r.db.QueryRowContext(ctx, `SELECT `+tweetFields+` FROM tweets WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tweets.ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	return t, nil
}

func (r *postgresTweetRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tweets WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check tweet exists: %w", err)
	}
	return ok, nil
}

func (r *postgresTweetRepo) List(ctx context.Context, plan *feeds.Plan) ([]*tweets.Tweet, int, error) {
	var out []*tweets.Tweet
	total, err := listPlan(ctx, r.db, "tweets", tweetFields, tweetColumns, plan, func(row rowScanner) error {
		t, err := scanTweet(row)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tweets: %w", err)
	}
	return out, total, nil
}

func (r *postgresTweetRepo) UpdateContent(ctx context.Context, id, owner uuid.UUID, content string, at time.Time) (*tweets.Tweet, error) {
	query := `
		UPDATE tweets SET content = $3, updated_at = $4
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + tweetFields
	t, err := scanTweet(r.db.QueryRowContext(ctx, query, id, owner, content, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tweets.ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}
	return t, nil
}

func (r *postgresTweetRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	return requireRow(result, tweets.ErrTweetNotFound)
}
