package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hungerhelp/hungerhelp/internal/locator"
)

type LocatorHandler struct {
	locator *locator.Service
}

func NewLocatorHandler(svc *locator.Service) *LocatorHandler {
	return &LocatorHandler{locator: svc}
}

type LocatorRequest struct {
	Location string `json:"location"`
}

// Search proxies a food-bank search near the given location and returns
// the maps embed URL.
func (h *LocatorHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req LocatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Location == "" {
		writeError(w, "location is required", http.StatusBadRequest)
		return
	}

	embedURL, err := h.locator.Lookup(r.Context(), req.Location)
	if err != nil {
		writeError(w, "location lookup failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": embedURL})
}
