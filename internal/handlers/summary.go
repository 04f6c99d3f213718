package handlers

import (
	"net/http"
	"strconv"

	"github.com/devjournal/devjournal-backend/internal/models"
	"github.com/devjournal/devjournal-backend/internal/realtime"
)

// GenerateSummary runs the summary pipeline and returns the generated object
// as the response body, matching what the summary page renders directly.
func GenerateSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	summary, err := summarySvc.Generate(r.Context(), userID)
	if err != nil {
		writeError(w, pipelineStatus(err), err.Error())
		return
	}

	publish(userID, realtime.SummaryGeneratedType, nil)

	writeJSON(w, http.StatusOK, summary)
}

type SummaryHistoryResponse struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message,omitempty"`
	Summaries []models.SummaryRecord `json:"summaries"`
}

// GetSummaryHistory returns the caller's most recent generated summaries.
func GetSummaryHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	if historySvc == nil {
		writeJSON(w, http.StatusOK, SummaryHistoryResponse{Success: true, Summaries: []models.SummaryRecord{}})
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	records, err := historySvc.Latest(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, SummaryHistoryResponse{
			Success: false, Message: "Failed to fetch summary history", Summaries: []models.SummaryRecord{},
		})
		return
	}

	writeJSON(w, http.StatusOK, SummaryHistoryResponse{Success: true, Summaries: records})
}
