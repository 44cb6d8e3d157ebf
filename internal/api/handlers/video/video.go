package video

import (
	"net/http"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/videos"
)

// Handler serves video metadata and the video feed
type Handler struct {
	service videos.Service
}

// NewHandler creates a video handler
func NewHandler(service videos.Service) *Handler {
	return &Handler{service: service}
}

// HandleList returns a page of videos
// GET /api/v1/videos?userId=&query=&sortBy=&sortType=&page=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), r.URL.Query().Get("userId"), handlers.ParseSpec(r))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "videos fetched", page)
}

// HandleGet returns one video with its owner projection
// GET /api/v1/videos/{videoId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "video fetched", view)
}

// HandlePublish records metadata for an uploaded video
// POST /api/v1/videos
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req videos.PublishRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	v, err := h.service.Publish(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusCreated, "video published", v)
}

// HandleUpdate changes the caller's video details
// PATCH /api/v1/videos/{videoId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	var req videos.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	v, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "video updated", v)
}

// HandleDelete removes the caller's video
// DELETE /api/v1/videos/{videoId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "video deleted", map[string]string{"id": id.String()})
}

// HandleTogglePublish flips the publish status of the caller's video
// PATCH /api/v1/videos/{videoId}/publish
func (h *Handler) HandleTogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "videoId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	v, err := h.service.TogglePublish(r.Context(), id)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "publish status toggled", v)
}
