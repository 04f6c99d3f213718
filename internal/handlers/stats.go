package handlers

import (
	"net/http"

	"github.com/devjournal/devjournal-backend/internal/services"
)

type StatsResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	Stats   *services.DashboardStats `json:"stats,omitempty"`
}

// GetStats returns the caller's dashboard statistics.
func GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	stats, err := statsSvc.Dashboard(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, StatsResponse{Success: false, Message: "Failed to fetch stats"})
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}
