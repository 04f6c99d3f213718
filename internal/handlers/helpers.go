package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/devjournal/devjournal-backend/internal/models"
	"github.com/devjournal/devjournal-backend/internal/realtime"
	"github.com/devjournal/devjournal-backend/internal/services"
)

// SessionManager is the session dependency of the handlers.
type SessionManager interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Validate(ctx context.Context, token string) (uuid.UUID, bool, error)
	Invalidate(ctx context.Context, token string) error
}

// SummaryGenerator runs the summary pipeline for one caller.
type SummaryGenerator interface {
	Generate(ctx context.Context, ownerID uuid.UUID) (*models.GeneratedSummary, error)
}

// ResumeImporter runs the resume import pipeline for one caller.
type ResumeImporter interface {
	Import(ctx context.Context, ownerID uuid.UUID, filePath string) (int, error)
}

// ResumeUploader stores an uploaded resume under the owner's folder and
// returns its path.
type ResumeUploader interface {
	Upload(ctx context.Context, ownerID uuid.UUID, file io.Reader, filename string) (string, error)
}

// SummaryHistoryReader lists previously generated summaries.
type SummaryHistoryReader interface {
	Latest(ctx context.Context, userID uuid.UUID, limit int) ([]models.SummaryRecord, error)
}

// StatsProvider computes the dashboard statistics.
type StatsProvider interface {
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*services.DashboardStats, error)
}

// Deps are the collaborators the handlers package is wired with at startup.
type Deps struct {
	DB       *sql.DB
	Sessions SessionManager
	Entries  *services.PostgresEntryStore
	Summary  SummaryGenerator
	Resume   ResumeImporter
	Storage  ResumeUploader // nil when Cloudinary is not configured
	History  SummaryHistoryReader
	Stats    StatsProvider
	Events   *realtime.Hub
}

var (
	db         *sql.DB
	sessions   SessionManager
	entryStore *services.PostgresEntryStore
	summarySvc SummaryGenerator
	resumeSvc  ResumeImporter
	storageSvc ResumeUploader
	historySvc SummaryHistoryReader
	statsSvc   StatsProvider
	eventHub   *realtime.Hub
)

// Init wires the package-level handler dependencies. Called once from main.
func Init(deps Deps) {
	db = deps.DB
	sessions = deps.Sessions
	entryStore = deps.Entries
	summarySvc = deps.Summary
	resumeSvc = deps.Resume
	storageSvc = deps.Storage
	historySvc = deps.History
	statsSvc = deps.Stats
	eventHub = deps.Events
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x" header.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth resolves the caller from the request's bearer token. Returns
// (uuid.Nil, false) when the credential is absent or invalid.
func requireAuth(r *http.Request) (uuid.UUID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return uuid.Nil, false
	}
	userID, ok, err := sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		return uuid.Nil, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the {error: message} envelope the pipeline endpoints use.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUnauthorized is the shared 401 envelope.
func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Authentication required")
}

// pipelineStatus maps the pipeline error taxonomy onto HTTP status codes.
// NoEntries and InvalidRequest are caller-facing 400s; everything else that
// isn't an auth failure is a 500.
func pipelineStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNoEntries), errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publish pushes an event to the caller's open sockets, if the hub is wired.
func publish(userID uuid.UUID, eventType string, payload interface{}) {
	if eventHub != nil {
		eventHub.Publish(userID.String(), eventType, payload)
	}
}
