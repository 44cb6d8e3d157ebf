package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/subscriptions"
)

var subscriptionColumns = columnMap{
	subscriptions.FieldCreatedAt:  plainCol("created_at"),
	subscriptions.FieldSubscriber: plainCol("subscriber_id"),
	subscriptions.FieldChannel:    plainCol("channel_id"),
}

const subscriptionFields = `id, subscriber_id, channel_id, created_at`

type postgresSubscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(db *sql.DB) subscriptions.Repository {
	return &postgresSubscriptionRepo{db: db}
}

// Insert relies on the unique (subscriber, channel) constraint; a concurrent
// duplicate reports ErrAlreadySubscribed instead of a second row
func (r *postgresSubscriptionRepo) Insert(ctx context.Context, s *subscriptions.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, s.ID, s.Subscriber, s.Channel, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return requireRow(result, subscriptions.ErrAlreadySubscribed)
}

func (r *postgresSubscriptionRepo) Delete(ctx context.Context, subscriber, channel uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`, subscriber, channel)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return requireRow(result, subscriptions.ErrSubscriptionNotFound)
}

func (r *postgresSubscriptionRepo) List(ctx context.Context, plan *feeds.Plan) ([]*subscriptions.Subscription, int, error) {
	var out []*subscriptions.Subscription
	total, err := listPlan(ctx, r.db, "subscriptions", subscriptionFields, subscriptionColumns, plan, func(row rowScanner) error {
		var s subscriptions.Subscription
		if err := row.Scan(&s.ID, &s.Subscriber, &s.Channel, &s.CreatedAt); err != nil {
			return err
		}
		out = append(out, &s)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return out, total, nil
}

func (r *postgresSubscriptionRepo) CountSubscribers(ctx context.Context, channel uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channel)
}

func (r *postgresSubscriptionRepo) CountSubscribed(ctx context.Context, subscriber uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriber)
}

func (r *postgresSubscriptionRepo) count(ctx context.Context, query string, id uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}

func (r *postgresSubscriptionRepo) SubscribedAmong(ctx context.Context, subscriber uuid.UUID, channels []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	if len(channels) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT channel_id FROM subscriptions WHERE subscriber_id = $1 AND channel_id = ANY($2)`,
		subscriber, pq.Array(uuidStrings(channels)))
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return out, nil
}
