package comments

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

// maxCommentGraphemes is the maximum length for comment content in graphemes
const maxCommentGraphemes = 10000

type commentService struct {
	repo         Repository
	videos       VideoChecker
	profiles     ProfileSource
	reactions    ReactionSource
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewService creates the comment service. reactions may be nil, in which
// case views carry zero counts.
func NewService(repo Repository, videos VideoChecker, profiles ProfileSource, reactions ReactionSource, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		repo:         repo,
		videos:       videos,
		profiles:     profiles,
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
	if uniseg.GraphemeClusterCount(content) > maxCommentGraphemes {
		return "", errs.Validation("content exceeds 10000 characters", "content")
	}
	return content, nil
}

func (s *commentService) Create(ctx context.Context, videoID uuid.UUID, content string) (*Comment, error) {
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

	ok, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, errs.FromStore("check video exists", err)
	}
	if !ok {
		return nil, errs.NotFound("video not found")
	}

	now := time.Now().UTC()
	c := &Comment{
		ID:        uuid.Must(uuid.NewV7()),
		Video:     videoID,
		Owner:     actor,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errs.FromStore("create comment", err)
	}
	return c, nil
}

func (s *commentService) Update(ctx context.Context, commentID uuid.UUID, content string) (*Comment, error) {
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

	if err := s.authorize(ctx, commentID, actor); err != nil {
		return nil, err
	}

	c, err := s.repo.UpdateContent(ctx, commentID, actor, content, time.Now().UTC())
	if errors.Is(err, ErrCommentNotFound) {
		return nil, errs.NotFound("comment not found")
	}
	if err != nil {
		return nil, errs.FromStore("update comment", err)
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, commentID uuid.UUID) error {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.authorize(ctx, commentID, actor); err != nil {
		return err
	}

	err = s.repo.Delete(ctx, commentID, actor)
	if errors.Is(err, ErrCommentNotFound) {
		return errs.NotFound("comment not found")
	}
	if err != nil {
		return errs.FromStore("delete comment", err)
	}
	return nil
}

func (s *commentService) ListForVideo(ctx context.Context, videoID uuid.UUID, spec feeds.RawSpec) (feeds.Page[View], error) {
	viewer := identity.OptionalActor(ctx)

	plan, err := feeds.Build(Collection, spec, feeds.Eq(FieldVideo, videoID))
	if err != nil {
		return feeds.Page[View]{}, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return feeds.Page[View]{}, errs.FromStore("check video exists", err)
	}
	if !ok {
		return feeds.Page[View]{}, errs.NotFound("video not found")
	}

	rows, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return feeds.Page[View]{}, errs.FromStore("list comments", err)
	}

	owners := make([]uuid.UUID, 0, len(rows))
	refs := make([]targets.Ref, 0, len(rows))
	for _, c := range rows {
		owners = append(owners, c.Owner)
		refs = append(refs, targets.Comment(c.ID))
	}

	profiles, err := s.profiles.Profiles(ctx, owners)
	if err != nil {
		return feeds.Page[View]{}, err
	}
	counts, states, err := s.reactionState(ctx, viewer, refs)
	if err != nil {
		return feeds.Page[View]{}, err
	}

	return feeds.Map(feeds.NewPage(rows, total, plan), func(c *Comment) View {
		ref := targets.Comment(c.ID)
		return View{
			ID:             c.ID,
			Video:          c.Video,
			Content:        c.Content,
			Owner:          users.Lookup(profiles, c.Owner),
			Likes:          counts[ref].Likes,
			Dislikes:       counts[ref].Dislikes,
			ViewerReaction: states[ref],
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		}
	}), nil
}

func (s *commentService) reactionState(ctx context.Context, viewer *uuid.UUID, refs []targets.Ref) (map[targets.Ref]reactions.Counts, map[targets.Ref]reactions.Kind, error) {
	if s.reactions == nil {
		return nil, nil, nil
	}
	counts, err := s.reactions.Counts(ctx, refs)
	if err != nil {
		return nil, nil, err
	}
	if viewer == nil {
		return counts, nil, nil
	}
	states, err := s.reactions.ViewerStates(ctx, *viewer, refs)
	if err != nil {
		return nil, nil, err
	}
	return counts, states, nil
}

func (s *commentService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, errs.FromStore("check comment exists", err)
	}
	return ok, nil
}

func (s *commentService) VideoOf(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrCommentNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, errs.FromStore("load comment", err)
	}
	return c.Video, true, nil
}

func (s *commentService) authorize(ctx context.Context, id, actor uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrCommentNotFound) {
		return errs.NotFound("comment not found")
	}
	if err != nil {
		return errs.FromStore("load comment", err)
	}
	return identity.RequireOwnership(c, actor)
}
