package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.RecordRegistration()
	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordLockout()
	c.RecordPostCreated()

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %v, want %v", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{
		"hungerhelp_registrations_total 1",
		"hungerhelp_login_success_total 1",
		"hungerhelp_login_failure_total 2",
		"hungerhelp_login_lockouts_total 1",
		"hungerhelp_posts_created_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollectorMiddleware(t *testing.T) {
	c := NewCollector()

	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(w.Body.String(), `status="418"`) {
		t.Error("request duration was not recorded with the response status")
	}
}
