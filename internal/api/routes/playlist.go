package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers/playlist"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/playlists"
)

// RegisterPlaylistRoutes registers playlist endpoints. Every mutation
// requires authentication and acts on the caller's own playlists.
func RegisterPlaylistRoutes(r chi.Router, service playlists.Service, auth *middleware.JWTAuth) {
	h := playlist.NewHandler(service)

	r.Get("/users/{userId}/playlists", h.HandleListForUser)
	r.Get("/playlists/{playlistId}", h.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/playlists", h.HandleCreate)
		r.Patch("/playlists/{playlistId}", h.HandleUpdate)
		r.Delete("/playlists/{playlistId}", h.HandleDelete)
		r.Post("/playlists/{playlistId}/videos/{videoId}", h.HandleAddVideo)
		r.Delete("/playlists/{playlistId}/videos/{videoId}", h.HandleRemoveVideo)
	})
}
