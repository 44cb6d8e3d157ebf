package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers/tweet"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/tweets"
)

// RegisterTweetRoutes registers tweet endpoints. Timelines are public.
func RegisterTweetRoutes(r chi.Router, service tweets.Service, auth *middleware.JWTAuth) {
	h := tweet.NewHandler(service)

	r.Get("/users/{userId}/tweets", h.HandleListForUser)

	r.With(auth.RequireAuth).Post("/tweets", h.HandleCreate)
	r.With(auth.RequireAuth).Patch("/tweets/{tweetId}", h.HandleUpdate)
	r.With(auth.RequireAuth).Delete("/tweets/{tweetId}", h.HandleDelete)
}
