package handler

import "net/http"

// About serves the static About Us content.
func About(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "HungerHelp",
		"message": "HungerHelp connects home cooks with people and food banks in their area. " +
			"Members share affordable recipes on the blog and can locate nearby food banks.",
	})
}
