package comments

import "errors"

// ErrCommentNotFound is returned by Repository when no comment matches,
// including conditional writes whose (id, owner) pair matched nothing
var ErrCommentNotFound = errors.New("comment not found")
