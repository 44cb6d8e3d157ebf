// Package memstore is an in-memory document store implementing every core
// repository. It backs STORE=memory and the service tests. Each write is
// atomic under one mutex, which gives the same conditional-write semantics
// as the Postgres repositories.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/playlists"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/subscriptions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/core/videos"
)

type reactionKey struct {
	actor  uuid.UUID
	target targets.Ref
}

type subscriptionKey struct {
	subscriber uuid.UUID
	channel    uuid.UUID
}

// Store holds every collection
type Store struct {
	users         map[uuid.UUID]*users.User
	videos        map[uuid.UUID]*videos.Video
	comments      map[uuid.UUID]*comments.Comment
	tweets        map[uuid.UUID]*tweets.Tweet
	playlists     map[uuid.UUID]*playlists.Playlist
	subscriptions map[subscriptionKey]*subscriptions.Subscription
	reactions     map[reactionKey]*reactions.Reaction
	reactionIDs   map[uuid.UUID]reactionKey
	mu            sync.RWMutex
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*users.User),
		videos:        make(map[uuid.UUID]*videos.Video),
		comments:      make(map[uuid.UUID]*comments.Comment),
		tweets:        make(map[uuid.UUID]*tweets.Tweet),
		playlists:     make(map[uuid.UUID]*playlists.Playlist),
		subscriptions: make(map[subscriptionKey]*subscriptions.Subscription),
		reactions:     make(map[reactionKey]*reactions.Reaction),
		reactionIDs:   make(map[uuid.UUID]reactionKey),
	}
}

func (s *Store) Users() users.Repository { return &userRepo{s} }
func (s *Store) Videos() videos.Repository { return &videoRepo{s} }
func (s *Store) Comments() comments.Repository { return &commentRepo{s} }
func (s *Store) Tweets() tweets.Repository { return &tweetRepo{s} }
func (s *Store) Playlists() playlists.Repository { return &playlistRepo{s} }
func (s *Store) Subscriptions() subscriptions.Repository { return &subscriptionRepo{s} }
func (s *Store) Reactions() reactions.Repository { return &reactionRepo{s} }

// Ping always succeeds; it mirrors the database health check
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
