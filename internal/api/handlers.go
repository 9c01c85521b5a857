package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/postservice"
	"github.com/starford/raido/internal/session"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *postservice.Service
	sessions *session.Manager
	creds    AdminCredentials
}

// NewHandler creates a new Handler.
func NewHandler(svc *postservice.Service, sessions *session.Manager, creds AdminCredentials) *Handler {
	return &Handler{svc: svc, sessions: sessions, creds: creds}
}

// ListPosts handles GET /posts, the public listing of slug/title summaries.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListSummaries(r.Context())
	if err != nil {
		slog.Error("list posts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts})
}

// GetPost handles GET /posts/{slug}, the public single-post view.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slog.Error("get post called without slug param")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	post, err := h.svc.GetPost(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get post failed", slog.String("slug", slug), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// AdminListPosts handles GET /admin/posts with full records.
func (h *Handler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		slog.Error("admin list posts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, AdminPostListResponse{Posts: posts})
}

// EditPost handles GET /admin/posts/{slug}, loading the editor for an
// address. The reserved "new" address yields an empty create-mode
// response; an unknown slug is a 404, distinct from create mode.
func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slog.Error("edit post called without slug param")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	load, err := h.svc.EditorPost(r.Context(), slug)
	if err != nil {
		slog.Error("editor load failed", slog.String("slug", slug), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	switch load.State {
	case postservice.EditorCreating:
		writeJSON(w, http.StatusOK, EditorResponse{Creating: true})
	case postservice.EditorNotFound:
		writeJSON(w, http.StatusNotFound, errorBody("post does not exist"))
	default:
		writeJSON(w, http.StatusOK, EditorResponse{Post: load.Post})
	}
}

// SavePost handles POST /admin/posts/{slug}: one form-encoded endpoint
// dispatching create, update, or delete via the intent field. Success
// redirects to the admin listing; validation failure answers in place
// with the per-field error map and performs no mutation.
func (h *Handler) SavePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slog.Error("save post called without slug param")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}

	intent, err := postservice.ParseIntent(r.PostFormValue("intent"))
	if err != nil {
		// The form surface only submits the fixed intent values; anything
		// else is a broken caller, not user input.
		slog.Error("save post with bad intent", slog.String("slug", slug), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	form := postservice.PostForm{
		Title:    r.PostFormValue("title"),
		Slug:     r.PostFormValue("slug"),
		Markdown: r.PostFormValue("markdown"),
	}

	out, err := h.svc.SavePost(r.Context(), slug, intent, form)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("post does not exist"))
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("slug already in use"))
		default:
			slog.Error("save post failed",
				slog.String("slug", slug),
				slog.String("intent", string(intent)),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	if out.FieldErrors != nil {
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{Errors: out.FieldErrors})
		return
	}
	http.Redirect(w, r, AdminPostsPath, http.StatusSeeOther)
}
