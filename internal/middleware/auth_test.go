package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/session"
)

func serveWithSession(t *testing.T, guard func(http.Handler) http.Handler, sess *session.Session) int {
	t.Helper()

	var called bool
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	if sess != nil {
		req = req.WithContext(session.NewContext(req.Context(), sess))
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code == http.StatusOK && !called {
		t.Error("got 200 without the handler running")
	}
	if w.Code != http.StatusOK && called {
		t.Error("guarded handler ran despite rejection")
	}
	return w.Code
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name     string
		sess     *session.Session
		wantCode int
	}{
		{name: "no session on context", sess: nil, wantCode: http.StatusUnauthorized},
		{name: "anonymous session", sess: &session.Session{}, wantCode: http.StatusUnauthorized},
		{name: "authenticated session", sess: &session.Session{UserID: 7, Role: model.RoleUser}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serveWithSession(t, RequireAuth(), tt.sess); got != tt.wantCode {
				t.Errorf("got status %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		sess     *session.Session
		roles    []model.Role
		wantCode int
	}{
		{
			name:     "anonymous is unauthorized",
			sess:     &session.Session{},
			roles:    []model.Role{model.RoleUser, model.RoleAdmin},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "user allowed on member routes",
			sess:     &session.Session{UserID: 7, Role: model.RoleUser},
			roles:    []model.Role{model.RoleUser, model.RoleAdmin},
			wantCode: http.StatusOK,
		},
		{
			name:     "admin allowed on member routes",
			sess:     &session.Session{UserID: 1, Role: model.RoleAdmin},
			roles:    []model.Role{model.RoleUser, model.RoleAdmin},
			wantCode: http.StatusOK,
		},
		{
			name:     "user forbidden on admin routes",
			sess:     &session.Session{UserID: 7, Role: model.RoleUser},
			roles:    []model.Role{model.RoleAdmin},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin allowed on admin routes",
			sess:     &session.Session{UserID: 1, Role: model.RoleAdmin},
			roles:    []model.Role{model.RoleAdmin},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serveWithSession(t, RequireRoles(tt.roles...), tt.sess); got != tt.wantCode {
				t.Errorf("got status %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	sm := session.NewManager("test-secret", time.Hour, false)

	var got *session.Session
	handler := Session(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Signed cookie round-trips through the middleware.
	w := httptest.NewRecorder()
	if err := sm.Save(w, &session.Session{UserID: 7, Role: model.RoleUser, Attempts: 2}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(w.Result().Cookies()[0])

	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil {
		t.Fatal("no session on context")
	}
	if got.UserID != 7 || got.Attempts != 2 {
		t.Errorf("got session %+v, want UserID 7 with 2 attempts", got)
	}

	// A cookieless request still gets a fresh session.
	got = nil
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if got == nil {
		t.Fatal("no session on context for a cookieless request")
	}
	if got.Authenticated() {
		t.Errorf("got session %+v, want fresh", got)
	}
}
