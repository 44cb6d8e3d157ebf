package videos

import "errors"

// ErrVideoNotFound is returned by Repository when no video matches, including
// conditional writes whose (id, owner) pair matched nothing
var ErrVideoNotFound = errors.New("video not found")
