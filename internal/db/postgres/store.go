package postgres

import (
	"context"
	"database/sql"

	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/playlists"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/subscriptions"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/core/videos"
)

// Store exposes every repository over one connection pool
type Store struct {
	db *sql.DB
}

// NewStore wraps an open pool
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() users.Repository { return NewUserRepository(s.db) }
func (s *Store) Videos() videos.Repository { return NewVideoRepository(s.db) }
func (s *Store) Comments() comments.Repository { return NewCommentRepository(s.db) }
func (s *Store) Tweets() tweets.Repository { return NewTweetRepository(s.db) }
func (s *Store) Playlists() playlists.Repository { return NewPlaylistRepository(s.db) }
func (s *Store) Subscriptions() subscriptions.Repository { return NewSubscriptionRepository(s.db) }
func (s *Store) Reactions() reactions.Repository { return NewReactionRepository(s.db) }

// Ping checks the pool can still reach the server
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the pool
func (s *Store) Close() error {
	return s.db.Close()
}
