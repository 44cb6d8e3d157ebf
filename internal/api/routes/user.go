package routes

import (
	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers/user"
	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/users"
)

// RegisterUserRoutes registers account endpoints
func RegisterUserRoutes(r chi.Router, service users.Service, auth *middleware.JWTAuth) {
	h := user.NewHandler(service, auth)

	r.Post("/users/register", h.HandleRegister)
	r.Post("/users/login", h.HandleLogin)
	r.With(auth.RequireAuth).Get("/users/me", h.HandleMe)
	r.Get("/users/{userId}", h.HandleGetProfile)
}
