package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimiter creates a middleware that limits requests based on IP address
// It allows 100 requests per minute per IP address for regular endpoints
func RateLimiter() func(http.Handler) http.Handler {
	return httprate.LimitByIP(100, time.Minute)
}

// StrictRateLimiter creates a more restrictive rate limiter for sensitive
// endpoints: login, registration and the throttle reset (10 requests per
// minute per IP). Putting /reset behind this keeps the unauthenticated
// reset from fully defeating the login throttle.
func StrictRateLimiter() func(http.Handler) http.Handler {
	return httprate.LimitByIP(10, time.Minute)
}
