package subscriptions

import "errors"

var (
	// ErrAlreadySubscribed is returned by Insert when the pair already exists
	ErrAlreadySubscribed = errors.New("already subscribed")

	// ErrSubscriptionNotFound is returned by Delete when the pair does not exist
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
