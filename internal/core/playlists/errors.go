package playlists

import "errors"

var (
	// ErrPlaylistNotFound is returned when no playlist matches, including
	// conditional writes whose (id, owner) pair matched nothing
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrDuplicateName is returned when the owner already has a playlist with that name
	ErrDuplicateName = errors.New("playlist name already exists")
)
