package tweet

import (
	"net/http"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/tweets"
)

// Handler serves tweets and user timelines
type Handler struct {
	service tweets.Service
}

// NewHandler creates a tweet handler
func NewHandler(service tweets.Service) *Handler {
	return &Handler{service: service}
}

// ContentInput is the body of create and update requests
type ContentInput struct {
	Content string `json:"content"`
}

// HandleListForUser returns a page of one user's tweets
// GET /api/v1/users/{userId}/tweets
func (h *Handler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathID(r, "userId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	page, err := h.service.ListForOwner(r.Context(), userID, handlers.ParseSpec(r))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "tweets fetched", page)
}

// HandleCreate posts a tweet as the caller
// POST /api/v1/tweets
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input ContentInput
	if err := handlers.DecodeJSON(r, &input); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	t, err := h.service.Create(r.Context(), input.Content)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, "tweet created", t)
}

// HandleUpdate edits the caller's tweet
// PATCH /api/v1/tweets/{tweetId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "tweetId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	var input ContentInput
	if err := handlers.DecodeJSON(r, &input); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	t, err := h.service.Update(r.Context(), id, input.Content)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "tweet updated", t)
}

// HandleDelete removes the caller's tweet
// DELETE /api/v1/tweets/{tweetId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "tweetId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "tweet deleted", map[string]string{"id": id.String()})
}
