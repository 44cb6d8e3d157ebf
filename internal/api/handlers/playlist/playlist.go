package playlist

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/playlists"
)

type opFunc func(ctx context.Context, playlistID, videoID uuid.UUID) (*playlists.Playlist, error)

// Handler serves playlists
type Handler struct {
	service playlists.Service
}

// NewHandler creates a playlist handler
func NewHandler(service playlists.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate creates a playlist owned by the caller
// POST /api/v1/playlists
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req playlists.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, "playlist created", p)
}

// HandleGet returns a playlist with its video entries
// GET /api/v1/playlists/{playlistId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "playlistId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "playlist fetched", detail)
}

// HandleListForUser returns a page of a user's playlists
// GET /api/v1/users/{userId}/playlists
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
	handlers.WriteSuccess(w, http.StatusOK, "playlists fetched", page)
}

// HandleUpdate renames or re-describes the caller's playlist
// PATCH /api/v1/playlists/{playlistId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "playlistId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	var req playlists.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "playlist updated", p)
}

// HandleDelete removes the caller's playlist
// DELETE /api/v1/playlists/{playlistId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "playlistId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "playlist deleted", map[string]string{"id": id.String()})
}

// HandleAddVideo appends a video to the caller's playlist
// POST /api/v1/playlists/{playlistId}/videos/{videoId}
func (h *Handler) HandleAddVideo(w http.ResponseWriter, r *http.Request) {
	h.changeVideo(w, r, h.service.AddVideo, "video added to playlist")
}

// HandleRemoveVideo removes a video from the caller's playlist
// DELETE /api/v1/playlists/{playlistId}/videos/{videoId}
func (h *Handler) HandleRemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.changeVideo(w, r, h.service.RemoveVideo, "video removed from playlist")
}

func (h *Handler) changeVideo(w http.ResponseWriter, r *http.Request, op opFunc, message string) {
	playlistID, err := handlers.PathID(r, "playlistId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	videoID, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	p, err := op(r.Context(), playlistID, videoID)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, message, p)
}
