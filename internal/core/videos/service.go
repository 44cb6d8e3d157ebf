package videos

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/deadline"
	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/errs"
)

type videoService struct {
	repo         Repository
	profiles     ProfileSource
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewService creates the video service
func NewService(repo Repository, profiles ProfileSource, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &videoService{
		repo:         repo,
		profiles:     profiles,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

func (s *videoService) Publish(ctx context.Context, req PublishRequest) (*Video, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return nil, errs.Validation("title, description and category are required", "title", "description", "category")
	}
	if !validURL(req.VideoURL) {
		return nil, errs.Validation("videoFile must be an absolute URL", "videoFile")
	}
	if !validURL(req.ThumbnailURL) {
		return nil, errs.Validation("thumbnail must be an absolute URL", "thumbnail")
	}
	if req.Duration < 0 {
		return nil, errs.Validation("duration cannot be negative", "duration")
	}

	now := time.Now().UTC()
	v := &Video{
		ID:           uuid.Must(uuid.NewV7()),
		Owner:        actor,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Tags:         NormalizeTags(req.Tags),
		Duration:     req.Duration,
		IsPublished:  true,
		Likes:        []uuid.UUID{},
		Dislikes:     []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, errs.FromStore("create video", err)
	}

	s.logger.Info("video published", "video", v.ID, "owner", actor)
	return v, nil
}

func (s *videoService) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	viewer := identity.OptionalActor(ctx)

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && (viewer == nil || *viewer != v.Owner) {
		return nil, errs.NotFound("video not found")
	}

	profiles, err := s.profiles.Profiles(ctx, []uuid.UUID{v.Owner})
	if err != nil {
		return nil, err
	}

	view := NewView(v, users.Lookup(profiles, v.Owner), viewer)
	return &view, nil
}

func (s *videoService) List(ctx context.Context, rawOwner string, spec feeds.RawSpec) (feeds.Page[View], error) {
	viewer := identity.OptionalActor(ctx)

	var scope []feeds.Filter
	ownScope := false
	if strings.TrimSpace(rawOwner) != "" {
		owner, err := targets.ParseID("userId", rawOwner)
		if err != nil {
			return feeds.Page[View]{}, err
		}
		scope = append(scope, feeds.Eq(FieldOwner, owner))
		ownScope = viewer != nil && *viewer == owner
	}
	if !ownScope {
		scope = append(scope, feeds.Eq(FieldIsPublished, true))
	}

	plan, err := feeds.Build(Collection, spec, scope...)
	if err != nil {
		return feeds.Page[View]{}, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	rows, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return feeds.Page[View]{}, errs.FromStore("list videos", err)
	}

	owners := make([]uuid.UUID, 0, len(rows))
	for _, v := range rows {
		owners = append(owners, v.Owner)
	}
	profiles, err := s.profiles.Profiles(ctx, owners)
	if err != nil {
		return feeds.Page[View]{}, err
	}

	return feeds.Map(feeds.NewPage(rows, total, plan), func(v *Video) View {
		return NewView(v, users.Lookup(profiles, v.Owner), viewer)
	}), nil
}

func (s *videoService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Video, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	d := Details{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Category:     strings.TrimSpace(req.Category),
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		Tags:         NormalizeTags(req.Tags),
	}
	if d.Title == "" || d.Description == "" || d.Category == "" {
		return nil, errs.Validation("title, description and category are required", "title", "description", "category")
	}
	if d.ThumbnailURL != "" && !validURL(d.ThumbnailURL) {
		return nil, errs.Validation("thumbnail must be an absolute URL", "thumbnail")
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.authorize(ctx, id, actor); err != nil {
		return nil, err
	}

	v, err := s.repo.UpdateDetails(ctx, id, actor, d)
	if errors.Is(err, ErrVideoNotFound) {
		return nil, errs.NotFound("video not found")
	}
	if err != nil {
		return nil, errs.FromStore("update video", err)
	}
	return v, nil
}

func (s *videoService) Delete(ctx context.Context, id uuid.UUID) error {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.authorize(ctx, id, actor); err != nil {
		return err
	}

	err = s.repo.Delete(ctx, id, actor)
	if errors.Is(err, ErrVideoNotFound) {
		return errs.NotFound("video not found")
	}
	if err != nil {
		return errs.FromStore("delete video", err)
	}

	s.logger.Info("video deleted", "video", id, "owner", actor)
	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, id uuid.UUID) (*Video, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.authorize(ctx, id, actor); err != nil {
		return nil, err
	}

	v, err := s.repo.TogglePublished(ctx, id, actor)
	if errors.Is(err, ErrVideoNotFound) {
		return nil, errs.NotFound("video not found")
	}
	if err != nil {
		return nil, errs.FromStore("toggle publish status", err)
	}
	return v, nil
}

func (s *videoService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, errs.FromStore("check video exists", err)
	}
	return ok, nil
}

// authorize loads the video and checks ownership. The write that follows is
// still conditional on (id, owner).
func (s *videoService) authorize(ctx context.Context, id, actor uuid.UUID) error {
	v, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return identity.RequireOwnership(v, actor)
}

func (s *videoService) load(ctx context.Context, id uuid.UUID) (*Video, error) {
	v, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrVideoNotFound) {
		return nil, errs.NotFound("video not found")
	}
	if err != nil {
		return nil, errs.FromStore("load video", err)
	}
	return v, nil
}

func validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.IsAbs() && u.Host != ""
}
