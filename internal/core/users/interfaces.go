package users

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines user persistence
type Repository interface {
	// Create returns ErrUserTaken on a duplicate username or email
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByIDs retrieves many users in one call. Missing ids are simply
	// absent from the map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
}

// Service defines user business logic
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Login verifies credentials. An unknown user and a wrong password both
	// fail with the same AuthenticationError.
	Login(ctx context.Context, req LoginRequest) (*User, error)

	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// Profiles resolves public profiles for many users, served from an
	// expiring LRU cache where possible
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
