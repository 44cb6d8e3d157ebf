package memstore

import (
	"context"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/subscriptions"
)

type subscriptionRepo struct{ s *Store }

func (r *subscriptionRepo) Insert(ctx context.Context, sub *subscriptions.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := subscriptionKey{subscriber: sub.Subscriber, channel: sub.Channel}
	if _, ok := r.s.subscriptions[key]; ok {
		return subscriptions.ErrAlreadySubscribed
	}
	c := *sub
	r.s.subscriptions[key] = &c
	return nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, subscriber, channel uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := subscriptionKey{subscriber: subscriber, channel: channel}
	if _, ok := r.s.subscriptions[key]; !ok {
		return subscriptions.ErrSubscriptionNotFound
	}
	delete(r.s.subscriptions, key)
	return nil
}

func (r *subscriptionRepo) List(ctx context.Context, plan *feeds.Plan) ([]*subscriptions.Subscription, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*subscriptions.Subscription, 0, len(r.s.subscriptions))
	for _, sub := range r.s.subscriptions {
		rows = append(rows, sub)
	}
	page, total := feeds.Apply(rows, plan)

	out := make([]*subscriptions.Subscription, len(page))
	for i, sub := range page {
		c := *sub
		out[i] = &c
	}
	return out, total, nil
}

func (r *subscriptionRepo) CountSubscribers(ctx context.Context, channel uuid.UUID) (int, error) {
	return r.count(ctx, func(k subscriptionKey) bool { return k.channel == channel })
}

func (r *subscriptionRepo) CountSubscribed(ctx context.Context, subscriber uuid.UUID) (int, error) {
	return r.count(ctx, func(k subscriptionKey) bool { return k.subscriber == subscriber })
}

func (r *subscriptionRepo) count(ctx context.Context, match func(subscriptionKey) bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for k := range r.s.subscriptions {
		if match(k) {
			n++
		}
	}
	return n, nil
}

func (r *subscriptionRepo) SubscribedAmong(ctx context.Context, subscriber uuid.UUID, channels []uuid.UUID) (map[uuid.UUID]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[uuid.UUID]bool)
	for _, ch := range channels {
		if _, ok := r.s.subscriptions[subscriptionKey{subscriber: subscriber, channel: ch}]; ok {
			out[ch] = true
		}
	}
	return out, nil
}
