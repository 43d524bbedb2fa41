package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/service"
	"github.com/hungerhelp/hungerhelp/internal/session"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

type RegisterRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Notifications   bool   `json:"notifications"`
}

type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	ChallengeToken string `json:"challenge_token"`
}

// UserResponse is the account payload rendered to clients. The password
// hash never leaves the server.
type UserResponse struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone"`
	Notifications bool       `json:"notifications"`
	Role          model.Role `json:"role"`
	RegisteredAt  time.Time  `json:"registered_at"`
	CurrentLogin  *time.Time `json:"current_login,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Notifications: u.Notifications,
		Role:          u.Role,
		RegisteredAt:  u.RegisteredAt,
		CurrentLogin:  u.CurrentLogin,
		LastLogin:     u.LastLogin,
	}
}

// Register handles account registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Notifications:   req.Notifications,
	}, r.RemoteAddr)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "User registered successfully",
		"email":    user.Email,
		"redirect": "/login",
	})
}

// Login handles authentication against the session's throttle state and
// establishes the session identity on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Login(r.Context(), sess, req.Email, req.Password, req.ChallengeToken, r.RemoteAddr)

	// The attempts counter may have moved on any outcome; the cookie has
	// to go back out before the body is written.
	if saveErr := h.sessions.Save(w, sess); saveErr != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountLocked):
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "Number of incorrect login attempts exceeded. Please use the reset link below.",
				"reset": "/reset",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, fmt.Sprintf("please check your details, %d login attempts remaining", sess.Remaining()), http.StatusUnauthorized)
		case errors.Is(err, service.ErrChallengeFailed):
			writeError(w, "challenge verification failed", http.StatusBadRequest)
		default:
			writeServiceError(w, err)
		}
		return
	}

	redirect := "/blog_home"
	if user.Role == model.RoleAdmin {
		redirect = "/admin"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "logged in",
		"role":     user.Role,
		"redirect": redirect,
	})
}

// Reset clears the failed-attempt counter. Deliberately unauthenticated to
// match the historical behavior; the strict IP rate limiter in front of it
// is the only brake.
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sess.ResetAttempts()
	if err := h.sessions.Save(w, sess); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "login attempts reset",
		"redirect": "/login",
	})
}

// Logout clears the session identity
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.authService.Logout(sess, r.RemoteAddr)
	if err := h.sessions.Save(w, sess); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "logged out",
		"redirect": "/",
	})
}

// Profile returns the authenticated account
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.authService.GetUser(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
