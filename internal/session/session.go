// Package session provides in-memory cookie sessions for the admin surface.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

const cookieName = "raido_session"

// User is the identity attached to a session. Admin gates access to the
// admin surface.
type User struct {
	Name  string
	Admin bool
}

type entry struct {
	user      User
	expiresAt time.Time
}

// Manager holds active sessions in memory. Sessions do not survive a
// restart; admins simply log in again.
type Manager struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]entry
}

// NewManager creates a session manager with the given session lifetime.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{ttl: ttl, sessions: make(map[string]entry)}
}

// Issue creates a session for user and sets the session cookie.
func (m *Manager) Issue(w http.ResponseWriter, user User) error {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	m.mu.Lock()
	m.sessions[token] = entry{user: user, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(m.ttl),
	})
	return nil
}

// Resolve returns the user bound to the request's session cookie, or
// (nil, false) when there is no valid session. Expired sessions are
// dropped on sight.
func (m *Manager) Resolve(r *http.Request) (*User, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[cookie.Value]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(m.sessions, cookie.Value)
		return nil, false
	}
	u := e.user
	return &u, true
}

// Clear destroys the request's session, if any, and expires the cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		m.mu.Lock()
		delete(m.sessions, cookie.Value)
		m.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
