package users

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Vidtube/internal/core/deadline"
	"Vidtube/internal/errs"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

const minPasswordLength = 8

type userService struct {
	repo         Repository
	cache        *ProfileCache
	logger       *slog.Logger
	storeTimeout time.Duration
}

// NewService creates the user service. cache may be nil to disable caching.
func NewService(repo Repository, cache *ProfileCache, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		repo:         repo,
		cache:        cache,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if err := validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Internal("hash password", err)
	}

	user := &User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		Avatar:       strings.TrimSpace(req.Avatar),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserTaken) {
			return nil, errs.Conflict("username or email already taken")
		}
		return nil, errs.FromStore("create user", err)
	}

	s.logger.Info("user registered", "user", user.ID, "username", user.Username)
	return user, nil
}

func validateRegister(req RegisterRequest) error {
	if !usernameRegex.MatchString(req.Username) {
		return errs.Validation("username must be 3-30 characters of a-z, 0-9 or _", "username")
	}
	if req.FullName == "" {
		return errs.Validation("fullName is required", "fullName")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errs.Validation("invalid email address", "email")
	}
	if len(req.Password) < minPasswordLength {
		return errs.Validation("password must be at least 8 characters", "password")
	}
	return nil
}

// Login fails when the user does not exist or the password does not match
func (s *userService) Login(ctx context.Context, req LoginRequest) (*User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, errs.Validation("username or email is required", "username", "email")
	}
	if req.Password == "" {
		return nil, errs.Validation("password is required", "password")
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	var (
		user *User
		err  error
	)
	if username != "" {
		user, err = s.repo.GetByUsername(ctx, username)
	} else {
		user, err = s.repo.GetByEmail(ctx, email)
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, errs.Authentication("invalid credentials")
	}
	if err != nil {
		return nil, errs.FromStore("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.Authentication("invalid credentials")
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	profiles, err := s.Profiles(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	p, ok := profiles[id]
	if !ok {
		return nil, errs.NotFound("user not found")
	}
	return &p, nil
}

func (s *userService) Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error) {
	out := make(map[uuid.UUID]Profile, len(ids))
	missing := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))

	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.cache.Get(id); ok {
			out[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	found, err := s.repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, errs.FromStore("load profiles", err)
	}
	for id, u := range found {
		p := u.Profile()
		s.cache.Add(p)
		out[id] = p
	}
	return out, nil
}

func (s *userService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.cache.Get(id); ok {
		return true, nil
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errs.FromStore("load user", err)
	}
	s.cache.Add(u.Profile())
	return true, nil
}
