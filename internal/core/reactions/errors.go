package reactions

import "errors"

var (
	// ErrReactionNotFound is returned by Repository lookups when the actor has
	// no reaction on the target
	ErrReactionNotFound = errors.New("reaction not found")

	// ErrStale is returned by the conditional writes when the stored state no
	// longer matches what the caller read. Toggle retries on it.
	ErrStale = errors.New("reaction changed concurrently")
)
