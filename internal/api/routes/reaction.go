package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers/reaction"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/reactions"
)

// RegisterReactionRoutes registers the reaction toggle endpoints. Toggles
// require authentication; reading a target's summary does not.
func RegisterReactionRoutes(r chi.Router, service reactions.Service, resolver reaction.TargetResolver, auth *middleware.JWTAuth) {
	h := reaction.NewHandler(service, resolver)

	r.Route("/reactions/{kind}", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/videos/{videoId}", h.HandleToggleVideo)
		r.Post("/videos/{videoId}/comments/{commentId}", h.HandleToggleComment)
		r.Post("/tweets/{tweetId}", h.HandleToggleTweet)
	})

	r.Get("/targets/{targetKind}/{targetId}/reactions", h.HandleGetState)
}
