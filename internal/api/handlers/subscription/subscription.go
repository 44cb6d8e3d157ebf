package subscription

import (
	"net/http"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/subscriptions"
)

// Handler serves channel subscriptions and channel profiles
type Handler struct {
	service subscriptions.Service
}

// NewHandler creates a subscription handler
func NewHandler(service subscriptions.Service) *Handler {
	return &Handler{service: service}
}

// HandleToggle subscribes the caller to a channel, or unsubscribes when
// already subscribed
// POST /api/v1/subscriptions/{channelId}
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	channelID, err := handlers.PathID(r, "channelId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	result, err := h.service.Toggle(r.Context(), channelID)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	message := "unsubscribed"
	if result.Subscribed {
		message = "subscribed"
	}
	handlers.WriteSuccess(w, http.StatusOK, message, result)
}

// HandleListSubscribers returns the channel's subscribers
// GET /api/v1/channels/{channelId}/subscribers
func (h *Handler) HandleListSubscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := handlers.PathID(r, "channelId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	page, err := h.service.ListSubscribers(r.Context(), channelID, handlers.ParseSpec(r))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "subscribers fetched", page)
}

// HandleListSubscribed returns the channels a user subscribes to
// GET /api/v1/users/{userId}/subscriptions
func (h *Handler) HandleListSubscribed(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := handlers.PathID(r, "userId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	page, err := h.service.ListSubscribedChannels(r.Context(), subscriberID, handlers.ParseSpec(r))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "subscribed channels fetched", page)
}

// HandleChannelProfile returns a channel with its subscription counts
// GET /api/v1/channels/{channelId}
func (h *Handler) HandleChannelProfile(w http.ResponseWriter, r *http.Request) {
	channelID, err := handlers.PathID(r, "channelId")
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	profile, err := h.service.ChannelProfile(r.Context(), channelID)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "channel fetched", profile)
}
