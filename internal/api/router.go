package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/postservice"
	"github.com/starford/raido/internal/session"
)

// NewRouter creates a chi router with the public and admin routes mounted.
// eventsHandler, if non-nil, is mounted at GET /admin/events inside the
// gated group.
func NewRouter(svc *postservice.Service, sessions *session.Manager, creds AdminCredentials, eventsHandler http.Handler) chi.Router {
	h := NewHandler(svc, sessions, creds)

	r := chi.NewRouter()

	// Public read surface; never passes through the admin gate.
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{slug}", h.GetPost)

	// Login entry points.
	r.Post("/admin/login", h.Login)
	r.Post("/admin/logout", h.Logout)

	// Admin surface behind the gate.
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(sessions))

		r.Get("/admin/posts", h.AdminListPosts)
		r.Get("/admin/posts/{slug}", h.EditPost)
		r.Post("/admin/posts/{slug}", h.SavePost)

		if eventsHandler != nil {
			r.Get("/admin/events", eventsHandler.ServeHTTP)
		}
	})

	return r
}
