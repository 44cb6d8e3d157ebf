package tweets

import "errors"

// ErrTweetNotFound is returned by Repository when no tweet matches, including
// conditional writes whose (id, owner) pair matched nothing
var ErrTweetNotFound = errors.New("tweet not found")
