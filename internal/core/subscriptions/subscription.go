package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/users"
)

const (
	FieldCreatedAt  = "createdAt"
	FieldSubscriber = "subscriber"
	FieldChannel    = "channel"
)

// Collection is the subscriber / subscribed-channel list configuration
var Collection = &feeds.Collection{
	Name: "subscriptions",
	Sortable: map[string]feeds.SortField{
		FieldCreatedAt: {Field: FieldCreatedAt},
	},
	DefaultSort:      FieldCreatedAt,
	DefaultDirection: feeds.Desc,
}

// Subscription links a subscriber to a channel. Both are user ids and
// never equal.
type Subscription struct {
	CreatedAt  time.Time `json:"createdAt"`
	ID         uuid.UUID `json:"id"`
	Subscriber uuid.UUID `json:"subscriber"`
	Channel    uuid.UUID `json:"channel"`
}

func (s *Subscription) RowID() uuid.UUID { return s.ID }

func (s *Subscription) Value(field string) any {
	switch field {
	case FieldCreatedAt:
		return s.CreatedAt
	case FieldSubscriber:
		return s.Subscriber
	case FieldChannel:
		return s.Channel
	}
	return nil
}

// ToggleResult reports the state after a toggle
type ToggleResult struct {
	Channel    uuid.UUID `json:"channel"`
	Subscribed bool      `json:"subscribed"`
}

// Entry is one row of a subscriber or subscribed-channel list. User is the
// other side of the subscription; IsSubscribedTo tells whether the viewer
// subscribes to that user.
type Entry struct {
	SubscribedAt   time.Time     `json:"subscribedAt"`
	User           users.Profile `json:"user"`
	IsSubscribedTo bool          `json:"isSubscribedTo"`
}

// ChannelProfile is a user's public channel page header
type ChannelProfile struct {
	Profile           users.Profile `json:"profile"`
	SubscribersCount  int           `json:"subscribersCount"`
	SubscribedToCount int           `json:"channelsSubscribedToCount"`
	IsSubscribed      bool          `json:"isSubscribed"`
}
