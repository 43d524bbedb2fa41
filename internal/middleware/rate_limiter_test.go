package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStrictRateLimiter(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	limiter := StrictRateLimiter()(handler)

	send := func(remoteAddr string) int {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		limiter.ServeHTTP(w, req)
		return w.Code
	}

	// The first 10 requests from one IP go through.
	for i := 0; i < 10; i++ {
		if got := send("127.0.0.1:12345"); got != http.StatusOK {
			t.Fatalf("request %d: got status %v, want %v", i+1, got, http.StatusOK)
		}
	}

	// The 11th within the window is refused.
	if got := send("127.0.0.1:12345"); got != http.StatusTooManyRequests {
		t.Errorf("got status %v, want %v", got, http.StatusTooManyRequests)
	}

	// Another IP has its own budget.
	if got := send("10.0.0.7:52314"); got != http.StatusOK {
		t.Errorf("got status %v for a different IP, want %v", got, http.StatusOK)
	}
}
