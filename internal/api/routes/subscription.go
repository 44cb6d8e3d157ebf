package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers/subscription"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/subscriptions"
)

// RegisterSubscriptionRoutes registers channel subscription endpoints
func RegisterSubscriptionRoutes(r chi.Router, service subscriptions.Service, auth *middleware.JWTAuth) {
	h := subscription.NewHandler(service)

	r.With(auth.RequireAuth).Post("/subscriptions/{channelId}", h.HandleToggle)

	r.Get("/channels/{channelId}", h.HandleChannelProfile)
	r.Get("/channels/{channelId}/subscribers", h.HandleListSubscribers)
	r.Get("/users/{userId}/subscriptions", h.HandleListSubscribed)
}
