package comment

import (
	"net/http"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/comments"
)

// Handler serves comments on videos
type Handler struct {
	service comments.Service
}

// NewHandler creates a comment handler
func NewHandler(service comments.Service) *Handler {
	return &Handler{service: service}
}

// ContentInput is the body of create and update requests
type ContentInput struct {
	Content string `json:"content"`
}

// HandleList returns a page of comments for a video
// GET /api/v1/videos/{videoId}/comments
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	videoID, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	page, err := h.service.ListForVideo(r.Context(), videoID, handlers.ParseSpec(r))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "comments fetched", page)
}

// HandleCreate adds a comment to a video
// POST /api/v1/videos/{videoId}/comments
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	videoID, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	var input ContentInput
	if err := handlers.DecodeJSON(r, &input); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	c, err := h.service.Create(r.Context(), videoID, input.Content)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, "comment added", c)
}

// HandleUpdate edits the caller's comment
// PATCH /api/v1/comments/{commentId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "commentId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	var input ContentInput
	if err := handlers.DecodeJSON(r, &input); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	c, err := h.service.Update(r.Context(), id, input.Content)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "comment updated", c)
}

// HandleDelete removes the caller's comment
// DELETE /api/v1/comments/{commentId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "commentId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "comment deleted", map[string]string{"id": id.String()})
}
