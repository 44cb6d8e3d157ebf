package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	ID           uuid.UUID `json:"id"`
}

// Profile is the public projection attached to videos, comments, tweets and
// subscription lists
type Profile struct {
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
	ID       uuid.UUID `json:"id"`
}

// Profile returns the public projection of u
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}

// RegisterRequest creates an account
type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Password string `json:"password"`
}

// LoginRequest identifies an account by username or email
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Lookup returns the profile for id, or a profile carrying only the id when
// the account no longer exists
func Lookup(profiles map[uuid.UUID]Profile, id uuid.UUID) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return Profile{ID: id}
}
