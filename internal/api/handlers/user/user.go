package user

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/users"
	"Vidtube/internal/errs"
)

// TokenIssuer signs bearer tokens; *middleware.JWTAuth implements it
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

// Handler serves registration, login and public profiles
type Handler struct {
	service users.Service
	tokens  TokenIssuer
}

// NewHandler creates a user handler
func NewHandler(service users.Service, tokens TokenIssuer) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
	}
}

// LoginOutput carries the account and a bearer token for it
type LoginOutput struct {
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        *users.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// HandleRegister creates an account
// POST /api/v1/users/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, "user registered", u)
}

// HandleLogin verifies credentials and issues a bearer token
// POST /api/v1/users/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req users.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	u, err := h.service.Login(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	token, expires, err := h.tokens.Issue(u.ID)
	if err != nil {
		handlers.HandleServiceError(w, r, errs.Internal("issue token failed", err))
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "logged in", LoginOutput{
		User:        u,
		AccessToken: token,
		ExpiresAt:   expires,
	})
}

// HandleMe returns the caller's profile
// GET /api/v1/users/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, err := identity.RequireActor(r.Context())
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	h.writeProfile(w, r, actor)
}

// HandleGetProfile returns a user's public profile
// GET /api/v1/users/{userId}
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "userId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	h.writeProfile(w, r, id)
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "user fetched", profile)
}
