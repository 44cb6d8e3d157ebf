package playlists

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
	"Vidtube/internal/core/users"
	"Vidtube/internal/errs"
)

type playlistService struct {
	repo         Repository
	videos       VideoSource
	profiles     ProfileSource
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewService creates the playlist service
func NewService(repo Repository, videos VideoSource, profiles ProfileSource, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &playlistService{
		repo:         repo,
		videos:       videos,
		profiles:     profiles,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.Validation("name is required", "name")
	}
	if uniseg.GraphemeClusterCount(name) > maxNameLength {
		return "", errs.Validation("name exceeds 150 characters", "name")
	}
	return name, nil
}

func (s *playlistService) Create(ctx context.Context, req CreateRequest) (*Playlist, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Playlist{
		ID:          uuid.Must(uuid.NewV7()),
		Owner:       actor,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Videos:      []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	// The unique (owner, name) index makes concurrent creates conflict too.
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, errs.Conflict("a playlist with this name already exists")
		}
		return nil, errs.FromStore("create playlist", err)
	}
	return p, nil
}

func (s *playlistService) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	viewer := identity.OptionalActor(ctx)

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrPlaylistNotFound) {
		return nil, errs.NotFound("playlist not found")
	}
	if err != nil {
		return nil, errs.FromStore("load playlist", err)
	}

	found, err := s.videos.GetByIDs(ctx, p.Videos)
	if err != nil {
		return nil, errs.FromStore("load playlist videos", err)
	}
	profiles, err := s.profiles.Profiles(ctx, []uuid.UUID{p.Owner})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(p.Videos))
	for _, vid := range p.Videos {
		v, ok := found[vid]
		if !ok {
			continue
		}
		if !v.IsPublished && (viewer == nil || *viewer != v.Owner) {
			continue
		}
		entries = append(entries, Entry{
			ID:            v.ID,
			Owner:         v.Owner,
			Title:         v.Title,
			Thumbnail:     v.ThumbnailURL,
			Duration:      v.Duration,
			Views:         v.Views,
			TotalLikes:    len(v.Likes),
			TotalDislikes: len(v.Dislikes),
		})
	}

	return &Detail{
		ID:          p.ID,
		Owner:       users.Lookup(profiles, p.Owner),
		Name:        p.Name,
		Description: p.Description,
		Videos:      entries,
		NoOfVideos:  len(p.Videos),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (s *playlistService) ListForOwner(ctx context.Context, ownerID uuid.UUID, spec feeds.RawSpec) (feeds.Page[Summary], error) {
	plan, err := feeds.Build(Collection, spec, feeds.Eq(FieldOwner, ownerID))
	if err != nil {
		return feeds.Page[Summary]{}, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	rows, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return feeds.Page[Summary]{}, errs.FromStore("list playlists", err)
	}
	return feeds.Map(feeds.NewPage(rows, total, plan), NewSummary), nil
}

func (s *playlistService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Playlist, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	p, err := s.repo.Update(ctx, id, actor, name, strings.TrimSpace(req.Description), time.Now().UTC())
	switch {
	case errors.Is(err, ErrPlaylistNotFound):
		return nil, errs.NotFound("playlist not found")
	case errors.Is(err, ErrDuplicateName):
		return nil, errs.Conflict("a playlist with this name already exists")
	case err != nil:
		return nil, errs.FromStore("update playlist", err)
	}
	return p, nil
}

func (s *playlistService) Delete(ctx context.Context, id uuid.UUID) error {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	err = s.repo.Delete(ctx, id, actor)
	if errors.Is(err, ErrPlaylistNotFound) {
		return errs.NotFound("playlist not found")
	}
	if err != nil {
		return errs.FromStore("delete playlist", err)
	}
	return nil
}

func (s *playlistService) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*Playlist, error) {
	actor, err := identity.RequireActor(ctx)
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

	p, err := s.repo.AppendVideo(ctx, playlistID, actor, videoID, time.Now().UTC())
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPlaylistNotFound) {
		return nil, errs.FromStore("add video to playlist", err)
	}

	// The conditional append matched nothing: tell a missing or foreign
	// playlist apart from a duplicate entry.
	current, err := s.repo.GetByID(ctx, playlistID)
	if errors.Is(err, ErrPlaylistNotFound) || (err == nil && current.Owner != actor) {
		return nil, errs.NotFound("playlist not found")
	}
	if err != nil {
		return nil, errs.FromStore("load playlist", err)
	}
	if current.Contains(videoID) {
		return nil, errs.Conflict("video is already in this playlist")
	}
	return nil, errs.Conflict("playlist changed concurrently, please retry")
}

func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*Playlist, error) {
	actor, err := identity.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	p, err := s.repo.RemoveVideo(ctx, playlistID, actor, videoID, time.Now().UTC())
	if errors.Is(err, ErrPlaylistNotFound) {
		return nil, errs.NotFound("playlist not found")
	}
	if err != nil {
		return nil, errs.FromStore("remove video from playlist", err)
	}
	return p, nil
}
