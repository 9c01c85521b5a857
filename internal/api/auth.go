// Package api implements the Raido HTTP surface using chi.
package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/starford/raido/internal/session"
)

// LoginPath is the login entry point that gated requests are redirected to.
const LoginPath = "/admin/login"

// AdminPostsPath is the admin listing root, the redirect target after
// every successful mutation.
const AdminPostsPath = "/admin/posts"

// AdminCredentials is the single admin account, sourced from config.
type AdminCredentials struct {
	Username string
	Password string
}

func (c AdminCredentials) match(username, password string) bool {
	// Unset credentials mean nobody can log in.
	if c.Username == "" || c.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}

// RequireAdmin returns middleware implementing the admin checkpoint: it
// resolves the request's session user and redirects to the login entry
// point when there is none or the user lacks the admin capability. The
// wrapped handler never runs on a failed check.
func RequireAdmin(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := sessions.Resolve(r)
			if !ok || !user.Admin {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Login handles POST /admin/login with form fields username and password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if !h.creds.match(username, password) {
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}
	if err := h.sessions.Issue(w, session.User{Name: username, Admin: true}); err != nil {
		slog.Error("issue session failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	http.Redirect(w, r, AdminPostsPath, http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
