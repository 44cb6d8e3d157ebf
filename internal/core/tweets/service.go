package tweets

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"Vidtube/internal/core/deadline"
	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/errs"
)

const maxTweetGraphemes = 280

type tweetService struct {
	repo         Repository
	users        UserChecker
	reactions    ReactionSource
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewService creates the tweet service
func NewService(repo Repository, users UserChecker, reactions ReactionSource, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &tweetService{
		repo:         repo,
		users:        users,
		reactions:    reactions,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errs.Validation("content cannot be empty", "content")
	}
	if uniseg.GraphemeClusterCount(content) > maxTweetGraphemes {
		return "", errs.Validation("content exceeds 280 characters", "content")
	}
	return content, nil
}

func (s *tweetService) Create(ctx context.Context, content string) (*Tweet, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &Tweet{ID: uuid.Must(uuid.NewV7()), Owner: actor, Content: content, CreatedAt: now, UpdatedAt: now}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, errs.FromStore("create tweet", err)
	}
	return t, nil
}

func (s *tweetService) Update(ctx context.Context, tweetID uuid.UUID, content string) (*Tweet, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.authorize(ctx, tweetID, actor); err != nil {
		return nil, err
	}

	t, err := s.repo.UpdateContent(ctx, tweetID, actor, content, time.Now().UTC())
	if errors.Is(err, ErrTweetNotFound) {
		return nil, errs.NotFound("tweet not found")
	}
	if err != nil {
		return nil, errs.FromStore("update tweet", err)
	}
	return t, nil
}

func (s *tweetService) Delete(ctx context.Context, tweetID uuid.UUID) error {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.authorize(ctx, tweetID, actor); err != nil {
		return err
	}

	err = s.repo.Delete(ctx, tweetID, actor)
	if errors.Is(err, ErrTweetNotFound) {
		return errs.NotFound("tweet not found")
	}
	if err != nil {
		return errs.FromStore("delete tweet", err)
	}
	return nil
}

func (s *tweetService) ListForOwner(ctx context.Context, ownerID uuid.UUID, spec feeds.RawSpec) (feeds.Page[View], error) {
	viewer := identity.OptionalActor(ctx)

	plan, err := feeds.Build(Collection, spec, feeds.Eq(FieldOwner, ownerID))
	if err != nil {
		return feeds.Page[View]{}, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return feeds.Page[View]{}, err
	}
	if !ok {
		return feeds.Page[View]{}, errs.NotFound("user not found")
	}

	rows, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return feeds.Page[View]{}, errs.FromStore("list tweets", err)
	}

	refs := make([]targets.Ref, 0, len(rows))
	for _, t := range rows {
		refs = append(refs, targets.Tweet(t.ID))
	}

	profiles, err := s.users.Profiles(ctx, []uuid.UUID{ownerID})
	if err != nil {
		return feeds.Page[View]{}, err
	}
	owner := users.Lookup(profiles, ownerID)

	var (
		counts = map[targets.Ref]reactions.Counts{}
		states = map[targets.Ref]reactions.Kind{}
	)
	if s.reactions != nil && len(refs) > 0 {
		if counts, err = s.reactions.Counts(ctx, refs); err != nil {
			return feeds.Page[View]{}, err
		}
		if viewer != nil {
			if states, err = s.reactions.ViewerStates(ctx, *viewer, refs); err != nil {
				return feeds.Page[View]{}, err
			}
		}
	}

	return feeds.Map(feeds.NewPage(rows, total, plan), func(t *Tweet) View {
		ref := targets.Tweet(t.ID)
		return View{
			ID:             t.ID,
			Content:        t.Content,
			Owner:          owner,
			Likes:          counts[ref].Likes,
			Dislikes:       counts[ref].Dislikes,
			ViewerReaction: states[ref],
			CreatedAt:      t.CreatedAt,
			UpdatedAt:      t.UpdatedAt,
		}
	}), nil
}

func (s *tweetService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, errs.FromStore("check tweet exists", err)
	}
	return ok, nil
}

func (s *tweetService) authorize(ctx context.Context, id, actor uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrTweetNotFound) {
		return errs.NotFound("tweet not found")
	}
	if err != nil {
		return errs.FromStore("load tweet", err)
	}
	return identity.RequireOwnership(t, actor)
}
