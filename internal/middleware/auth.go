package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/session"
)

// Session loads the signed session cookie and places the session on the
// request context for everything downstream. It must run before
// RequireAuth and RequireRoles.
func Session(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sm.Load(r)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// RequireAuth rejects requests whose session carries no authenticated
// identity. The guarded handler never runs on failure.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				writeGuardError(w, "login required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles rejects authenticated sessions whose role is not in the
// allowed set. Each protected route declares its own set.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				writeGuardError(w, "login required", http.StatusUnauthorized)
				return
			}
			if !allowed[sess.Role] {
				writeGuardError(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeGuardError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
