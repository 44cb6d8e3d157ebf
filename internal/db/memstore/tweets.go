package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/tweets"
)

type tweetRepo struct{ s *Store }

func cloneTweet(t *tweets.Tweet) *tweets.Tweet {
	out := *t
	return &out
}

func (r *tweetRepo) Create(ctx context.Context, t *tweets.Tweet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tweets[t.ID] = cloneTweet(t)
	return nil
}

func (r *tweetRepo) GetByID(ctx context.Context, id uuid.UUID) (*tweets.Tweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tweets[id]
	if !ok {
		return nil, tweets.ErrTweetNotFound
	}
	return cloneTweet(t), nil
}

func (r *tweetRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.tweets[id]
	return ok, nil
}

func (r *tweetRepo) List(ctx context.Context, plan *feeds.Plan) ([]*tweets.Tweet, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*tweets.Tweet, 0, len(r.s.tweets))
	for _, t := range r.s.tweets {
		rows = append(rows, t)
	}
	page, total := feeds.Apply(rows, plan)

	out := make([]*tweets.Tweet, len(page))
	for i, t := range page {
		out[i] = cloneTweet(t)
	}
	return out, total, nil
}

func (r *tweetRepo) UpdateContent(ctx context.Context, id, owner uuid.UUID, content string, at time.Time) (*tweets.Tweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tweets[id]
	if !ok || t.Owner != owner {
		return nil, tweets.ErrTweetNotFound
	}
	t.Content = content
	t.UpdatedAt = at
	return cloneTweet(t), nil
}

func (r *tweetRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tweets[id]
	if !ok || t.Owner != owner {
		return tweets.ErrTweetNotFound
	}
	delete(r.s.tweets, id)
	return nil
}
