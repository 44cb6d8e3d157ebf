package subscriptions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"Vidtube/internal/core/deadline"
	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/users"
	"Vidtube/internal/errs"
)

const toggleAttempts = 3

type subscriptionService struct {
	repo         Repository
	users        UserSource
	recorder     Recorder
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewService creates the subscription service. recorder may be nil.
func NewService(repo Repository, users UserSource, recorder Recorder, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &subscriptionService{
		repo:         repo,
		users:        users,
		recorder:     recorder,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// Toggle subscribes when the pair is absent and unsubscribes otherwise.
// Insert-if-absent and delete are each atomic in the store; a pair that
// flips between them is retried.
func (s *subscriptionService) Toggle(ctx context.Context, channelID uuid.UUID) (*ToggleResult, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if channelID == actor {
		return nil, errs.Validation("cannot subscribe to your own channel", "channelId")
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.users.Exists(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NotFound("channel not found")
	}

	var result *ToggleResult
	backoff := retry.WithMaxRetries(toggleAttempts-1, retry.NewConstant(5*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.repo.Insert(ctx, &Subscription{
			ID:         uuid.Must(uuid.NewV7()),
			Subscriber: actor,
			Channel:    channelID,
			CreatedAt:  time.Now().UTC(),
		})
		if err == nil {
			result = &ToggleResult{Channel: channelID, Subscribed: true}
			return nil
		}
		if !errors.Is(err, ErrAlreadySubscribed) {
			return err
		}

		err = s.repo.Delete(ctx, actor, channelID)
		if errors.Is(err, ErrSubscriptionNotFound) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		result = &ToggleResult{Channel: channelID, Subscribed: false}
		return nil
	})
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, errs.Conflict("subscription changed concurrently, please retry")
	}
	if err != nil {
		return nil, errs.FromStore("toggle subscription", err)
	}

	if s.recorder != nil {
		outcome := "unsubscribed"
		if result.Subscribed {
			outcome = "subscribed"
		}
		s.recorder.ObserveSubscription(outcome)
	}
	return result, nil
}

func (s *subscriptionService) ListSubscribers(ctx context.Context, channelID uuid.UUID, spec feeds.RawSpec) (feeds.Page[Entry], error) {
	return s.list(ctx, channelID, FieldChannel, spec, func(sub *Subscription) uuid.UUID { return sub.Subscriber })
}

func (s *subscriptionService) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, spec feeds.RawSpec) (feeds.Page[Entry], error) {
	return s.list(ctx, subscriberID, FieldSubscriber, spec, func(sub *Subscription) uuid.UUID { return sub.Channel })
}

// list pages subscriptions where scopeField equals userID and projects the
// other side of each row with the viewer's isSubscribedTo flag
func (s *subscriptionService) list(ctx context.Context, userID uuid.UUID, scopeField string, spec feeds.RawSpec, other func(*Subscription) uuid.UUID) (feeds.Page[Entry], error) {
	viewer := identity.OptionalActor(ctx)

	plan, err := feeds.Build(Collection, spec, feeds.Eq(scopeField, userID))
	if err != nil {
		return feeds.Page[Entry]{}, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return feeds.Page[Entry]{}, err
	}
	if !ok {
		return feeds.Page[Entry]{}, errs.NotFound("user not found")
	}

	rows, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return feeds.Page[Entry]{}, errs.FromStore("list subscriptions", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, sub := range rows {
		ids = append(ids, other(sub))
	}

	profiles, err := s.users.Profiles(ctx, ids)
	if err != nil {
		return feeds.Page[Entry]{}, err
	}

	following := map[uuid.UUID]bool{}
	if viewer != nil && len(ids) > 0 {
		following, err = s.repo.SubscribedAmong(ctx, *viewer, ids)
		if err != nil {
			return feeds.Page[Entry]{}, errs.FromStore("load viewer subscriptions", err)
		}
	}

	return feeds.Map(feeds.NewPage(rows, total, plan), func(sub *Subscription) Entry {
		id := other(sub)
		return Entry{
			User:           users.Lookup(profiles, id),
			SubscribedAt:   sub.CreatedAt,
			IsSubscribedTo: following[id],
		}
	}), nil
}

func (s *subscriptionService) ChannelProfile(ctx context.Context, channelID uuid.UUID) (*ChannelProfile, error) {
	viewer := identity.OptionalActor(ctx)

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	profiles, err := s.users.Profiles(ctx, []uuid.UUID{channelID})
	if err != nil {
		return nil, err
	}
	profile, ok := profiles[channelID]
	if !ok {
		return nil, errs.NotFound("channel not found")
	}

	subscribers, err := s.repo.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, errs.FromStore("count subscribers", err)
	}
	subscribed, err := s.repo.CountSubscribed(ctx, channelID)
	if err != nil {
		return nil, errs.FromStore("count subscriptions", err)
	}

	out := &ChannelProfile{
		Profile:           profile,
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribed,
	}
	if viewer != nil && *viewer != channelID {
		following, err := s.repo.SubscribedAmong(ctx, *viewer, []uuid.UUID{channelID})
		if err != nil {
			return nil, errs.FromStore("load viewer subscriptions", err)
		}
		out.IsSubscribed = following[channelID]
	}
	return out, nil
}
