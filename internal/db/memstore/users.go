package memstore

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"Vidtube/internal/core/users"
)

type userRepo struct{ s *Store }

func cloneUser(u *users.User) *users.User {
	c := *u
	return &c
}

func (r *userRepo) Create(ctx context.Context, u *users.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return users.ErrUserTaken
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.find(ctx, func(u *users.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.find(ctx, func(u *users.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) find(ctx context.Context, match func(*users.User) bool) (*users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[uuid.UUID]*users.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}
