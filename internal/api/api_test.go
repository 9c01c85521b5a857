package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/postservice"
	"github.com/starford/raido/internal/session"
	"github.com/starford/raido/internal/testutil"
)

const (
	testUser = "editor"
	testPass = "sekrit"
)

// testEnv sets up a temp SQLite store, service, session manager, and router.
func testEnv(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	db := testutil.TestDB(t)
	svc := postservice.NewService(db, nil)
	sessions := session.NewManager(time.Hour)
	router := NewRouter(svc, sessions, AdminCredentials{Username: testUser, Password: testPass}, nil)
	return router, sessions
}

func postForm(path string, fields url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// login authenticates against the router and returns the session cookie.
func login(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	req := postForm("/admin/login", url.Values{"username": {testUser}, "password": {testPass}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Value != "" {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

// createPost drives the admin form flow to create a post.
func createPost(t *testing.T, router http.Handler, cookie *http.Cookie, slug, title, markdown string) {
	t.Helper()
	req := postForm("/admin/posts/new", url.Values{
		"intent":   {"create"},
		"title":    {title},
		"slug":     {slug},
		"markdown": {markdown},
	})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != AdminPostsPath {
		t.Fatalf("create redirect = %q, want %q", loc, AdminPostsPath)
	}
}

func TestPublicListing(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)
	createPost(t, router, cookie, "hello", "Hello", "# hi")

	// No session on the public path.
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp PostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Posts) != 1 || resp.Posts[0].Slug != "hello" || resp.Posts[0].Title != "Hello" {
		t.Errorf("posts = %+v", resp.Posts)
	}
}

func TestPublicGetPost(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)
	createPost(t, router, cookie, "hello", "Hello", "# hi")

	req := httptest.NewRequest(http.MethodGet, "/posts/hello", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var post models.Post
	_ = json.Unmarshal(w.Body.Bytes(), &post)
	if post.Markdown != "# hi" {
		t.Errorf("markdown = %q", post.Markdown)
	}

	// Unknown slug is a structured not-found.
	req = httptest.NewRequest(http.MethodGet, "/posts/hello-world", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", w.Code)
	}
}

func TestGateRedirectsAnonymousReads(t *testing.T) {
	router, _ := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != LoginPath {
		t.Errorf("redirect = %q, want %q", loc, LoginPath)
	}
}

func TestGateBlocksMutationsWithoutSideEffects(t *testing.T) {
	router, _ := testEnv(t)

	req := postForm("/admin/posts/new", url.Values{
		"intent":   {"create"},
		"title":    {"Sneaky"},
		"slug":     {"sneaky"},
		"markdown": {"body"},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}

	// Nothing may have reached the store.
	req = httptest.NewRequest(http.MethodGet, "/posts/sneaky", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("gated mutation left a record (status %d)", w.Code)
	}
}

func TestGateRejectsNonAdminSession(t *testing.T) {
	router, sessions := testEnv(t)

	w := httptest.NewRecorder()
	if err := sessions.Issue(w, session.User{Name: "reader", Admin: false}); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Errorf("non-admin status = %d, want 302", rec.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	router, _ := testEnv(t)

	req := postForm("/admin/login", url.Values{"username": {testUser}, "password": {"wrong"}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogoutDropsSession(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)

	req := postForm("/admin/logout", url.Values{})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Errorf("post-logout status = %d, want 302", w.Code)
	}
}

func TestEditorNewVersusNotFound(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)

	// Reserved "new" address: create mode, no record.
	req := httptest.NewRequest(http.MethodGet, "/admin/posts/new", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("editor new status = %d", w.Code)
	}
	var editor EditorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &editor)
	if !editor.Creating || editor.Post != nil {
		t.Errorf("editor = %+v, want creating with null post", editor)
	}

	// Any other absent address is a distinguishable not-found.
	req = httptest.NewRequest(http.MethodGet, "/admin/posts/hello-world", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("editor absent status = %d, want 404", w.Code)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)

	req := postForm("/admin/posts/new", url.Values{
		"intent":   {"create"},
		"slug":     {"a"},
		"markdown": {"b"},
	})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", w.Code, w.Body.String())
	}
	var resp FieldErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Errors) != 1 || resp.Errors["title"] != "Title is required" {
		t.Errorf("errors = %v", resp.Errors)
	}
	if w.Header().Get("Location") != "" {
		t.Error("validation failure must not redirect")
	}
}

func TestCreateConflict(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)
	createPost(t, router, cookie, "taken", "Original", "body")

	req := postForm("/admin/posts/new", url.Values{
		"intent":   {"create"},
		"title":    {"Clobber"},
		"slug":     {"taken"},
		"markdown": {"other"},
	})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	// Pre-existing record untouched.
	req = httptest.NewRequest(http.MethodGet, "/posts/taken", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var post models.Post
	_ = json.Unmarshal(w.Body.Bytes(), &post)
	if post.Title != "Original" {
		t.Errorf("title = %q, want Original", post.Title)
	}
}

func TestUpdateRename(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)
	createPost(t, router, cookie, "before", "Post", "body")

	req := postForm("/admin/posts/before", url.Values{
		"intent":   {"update"},
		"title":    {"Post"},
		"slug":     {"after"},
		"markdown": {"body"},
	})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != AdminPostsPath {
		t.Errorf("redirect = %q, want %q", loc, AdminPostsPath)
	}

	req = httptest.NewRequest(http.MethodGet, "/posts/before", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("old slug status = %d, want 404", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/posts/after", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("new slug status = %d, want 200", w.Code)
	}
}

func TestUpdateAbsent(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)

	req := postForm("/admin/posts/ghost", url.Values{
		"intent":   {"update"},
		"title":    {"x"},
		"slug":     {"ghost"},
		"markdown": {"y"},
	})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteFlow(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)
	createPost(t, router, cookie, "bye", "Bye", "gone")

	// Delete carries no field content; only the address matters.
	req := postForm("/admin/posts/bye", url.Values{"intent": {"delete"}})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/posts/bye", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}

	// Deleting again is a not-found failure.
	req = postForm("/admin/posts/bye", url.Values{"intent": {"delete"}})
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestUnknownIntentIsInternalError(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)

	req := postForm("/admin/posts/new", url.Values{
		"intent":   {"publish"},
		"title":    {"a"},
		"slug":     {"b"},
		"markdown": {"c"},
	})
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestAdminListing(t *testing.T) {
	router, _ := testEnv(t)
	cookie := login(t, router)
	createPost(t, router, cookie, "a", "A", "1")
	createPost(t, router, cookie, "b", "B", "2")

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp AdminPostListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Posts) != 2 || resp.Posts[0].Markdown != "1" {
		t.Errorf("posts = %+v", resp.Posts)
	}
}
