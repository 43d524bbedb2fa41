package handler

import (
	"net/http"

	"github.com/hungerhelp/hungerhelp/internal/audit"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/service"
	"github.com/hungerhelp/hungerhelp/internal/session"
)

// logTailLines is how many audit-log lines the admin view shows.
const logTailLines = 20

type AdminHandler struct {
	authService *service.AuthService
	sink        *audit.Sink
}

func NewAdminHandler(authService *service.AuthService, sink *audit.Sink) *AdminHandler {
	return &AdminHandler{authService: authService, sink: sink}
}

// Home is the admin landing view.
func (h *AdminHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "admin",
		"email":   sess.Email,
	})
}

// Users lists every account with the user role.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context(), model.RoleUser)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

// Logs returns the tail of the security audit log.
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	lines, err := h.sink.Tail(logTailLines)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": lines})
}
