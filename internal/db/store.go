// Package db selects and opens the storage backend.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"Vidtube/internal/config"
	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/playlists"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/subscriptions"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/core/videos"
	"Vidtube/internal/db/memstore"
	"Vidtube/internal/db/migrations"
	"Vidtube/internal/db/postgres"
)

// Store is implemented by both *postgres.Store and *memstore.Store
type Store interface {
	Users() users.Repository
	Videos() videos.Repository
	Comments() comments.Repository
	Tweets() tweets.Repository
	Playlists() playlists.Repository
	Subscriptions() subscriptions.Repository
	Reactions() reactions.Repository
	Ping(ctx context.Context) error
}

var (
	_ Store = (*postgres.Store)(nil)
	_ Store = (*memstore.Store)(nil)
)

// Open connects the configured backend. For postgres it pings the server and
// applies pending migrations. The returned close func is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func() error, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		return memstore.New(), func() error { return nil }, nil
	}

	pool, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database")

	if err := migrations.Up(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, nil, err
	}
	logger.Info("migrations completed successfully")

	store := postgres.NewStore(pool)
	return store, store.Close, nil
}
