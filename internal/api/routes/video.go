package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers/comment"
	"Vidtube/internal/api/handlers/video"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/videos"
)

// RegisterVideoRoutes registers video metadata endpoints and the comment
// endpoints nested under a video
func RegisterVideoRoutes(r chi.Router, service videos.Service, commentService comments.Service, auth *middleware.JWTAuth) {
	h := video.NewHandler(service)
	ch := comment.NewHandler(commentService)

	r.Get("/videos", h.HandleList)
	r.Get("/videos/{videoId}", h.HandleGet)
	r.Get("/videos/{videoId}/comments", ch.HandleList)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/videos", h.HandlePublish)
		r.Patch("/videos/{videoId}", h.HandleUpdate)
		r.Delete("/videos/{videoId}", h.HandleDelete)
		r.Patch("/videos/{videoId}/publish", h.HandleTogglePublish)

		r.Post("/videos/{videoId}/comments", ch.HandleCreate)
		r.Patch("/comments/{commentId}", ch.HandleUpdate)
		r.Delete("/comments/{commentId}", ch.HandleDelete)
	})
}
