// Package routes wires the HTTP handlers onto a chi router.
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/api/handlers/reaction"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/playlists"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/subscriptions"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/core/videos"
	"Vidtube/internal/metrics"
)

// Services bundles everything the API serves
type Services struct {
	Users         users.Service
	Videos        videos.Service
	Comments      comments.Service
	Tweets        tweets.Service
	Playlists     playlists.Service
	Subscriptions subscriptions.Service
	Reactions     reactions.Service
	Resolver      reaction.TargetResolver
}

// Options configures the cross-cutting middleware
type Options struct {
	Auth           *middleware.JWTAuth
	RateLimiter    *middleware.RateLimiter
	Metrics        *metrics.Metrics
	Health         func(ctx context.Context) error
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter builds the full HTTP surface: /health, /metrics and /api/v1
func NewRouter(svc Services, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(opts.Health))
	r.Handle("/metrics", opts.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(opts.RequestTimeout))
		}
		// Optional auth runs first so the limiter can key on the actor.
		r.Use(opts.Auth.OptionalAuth)
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		RegisterUserRoutes(r, svc.Users, opts.Auth)
		RegisterVideoRoutes(r, svc.Videos, svc.Comments, opts.Auth)
		RegisterTweetRoutes(r, svc.Tweets, opts.Auth)
		RegisterPlaylistRoutes(r, svc.Playlists, opts.Auth)
		RegisterSubscriptionRoutes(r, svc.Subscriptions, opts.Auth)
		RegisterReactionRoutes(r, svc.Reactions, svc.Resolver, opts.Auth)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				handlers.WriteError(w, http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		handlers.WriteSuccess(w, http.StatusOK, "ok", map[string]string{"status": "healthy"})
	}
}
