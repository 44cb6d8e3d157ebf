package users

import "errors"

// Sentinel errors returned by Repository implementations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUserTaken is returned when the username or email already belongs to another user
	ErrUserTaken = errors.New("username or email already taken")
)
