// Package session implements the client-side session: an HMAC-signed cookie
// carrying the failed-login attempts counter and, once login succeeds, the
// authenticated identity. The server keeps no per-session state.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hungerhelp/hungerhelp/internal/model"
)

const cookieName = "session"

// lockThreshold is the number of consecutive failed login attempts after
// which the session refuses further credential checks.
const lockThreshold = 4

// Session is the per-client state round-tripped through the signed cookie.
type Session struct {
	UserID   int64
	Email    string
	Role     model.Role
	Attempts int
}

// Authenticated reports whether a login has succeeded on this session.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Locked reports whether the attempts counter has reached the lock
// threshold. Locked sessions are refused before any credential check.
func (s *Session) Locked() bool {
	return s.Attempts >= lockThreshold
}

// RecordFailure increments the attempts counter and returns the number of
// attempts remaining before the session locks.
func (s *Session) RecordFailure() int {
	s.Attempts++
	remaining := lockThreshold - s.Attempts
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Remaining returns how many failed attempts are left before the session
// locks.
func (s *Session) Remaining() int {
	remaining := lockThreshold - s.Attempts
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// ResetAttempts clears the failed-attempt counter. This is the only
// transition out of the locked state; a successful login does not clear it.
func (s *Session) ResetAttempts() {
	s.Attempts = 0
}

// SetIdentity records a successful login on the session.
func (s *Session) SetIdentity(u *model.User) {
	s.UserID = u.ID
	s.Email = u.Email
	s.Role = u.Role
}

// ClearIdentity removes the authenticated identity, keeping the attempts
// counter intact.
func (s *Session) ClearIdentity() {
	s.UserID = 0
	s.Email = ""
	s.Role = ""
}

type claims struct {
	UserID   int64      `json:"uid"`
	Email    string     `json:"email,omitempty"`
	Role     model.Role `json:"role,omitempty"`
	Attempts int        `json:"attempts"`
	jwt.RegisteredClaims
}

// Manager signs and validates session cookies.
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
}

func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
	}
}

// Load reads the session from the request cookie. A missing, expired or
// tampered cookie yields a fresh session rather than an error.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return &Session{}
	}

	c, ok := token.Claims.(*claims)
	if !ok {
		return &Session{}
	}

	return &Session{
		UserID:   c.UserID,
		Email:    c.Email,
		Role:     c.Role,
		Attempts: c.Attempts,
	}
}

// Save signs the session and writes it back as an HTTP-only cookie.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:   s.UserID,
		Email:    s.Email,
		Role:     s.Role,
		Attempts: s.Attempts,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type contextKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext retrieves the session placed on the context by the session
// middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
