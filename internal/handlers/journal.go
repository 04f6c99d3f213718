package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/devjournal/devjournal-backend/internal/models"
	"github.com/devjournal/devjournal-backend/internal/realtime"
)

type EntryRequest struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Category string         `json:"category"`
	Tags     models.TagList `json:"tags"`
}

type EntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type EntriesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Entries []models.JournalEntry `json:"entries"`
	Total   int64                 `json:"total"`
}

// CreateEntry creates a journal entry for the authenticated caller.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Title and content are required"})
		return
	}

	entry := models.JournalEntry{
		UserID:   userID, // from session only; owner is never taken from the body
		Title:    req.Title,
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		Tags:     req.Tags,
	}
	if entry.Tags == nil {
		entry.Tags = models.TagList{}
	}

	if err := entryStore.Create(r.Context(), &entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to create journal entry"})
		return
	}

	publish(userID, realtime.EntryCreatedType, map[string]string{"id": entry.ID.String(), "title": entry.Title})

	writeJSON(w, http.StatusCreated, EntryResponse{
		Success: true,
		Message: "Entry created successfully",
		Entry:   &entry,
	})
}

// GetEntries returns one page of the caller's entries, newest first.
func GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	skip := 0
	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if parsed, err := strconv.Atoi(skipStr); err == nil && parsed >= 0 {
			skip = parsed
		}
	}

	entries, total, err := entryStore.ListPage(r.Context(), userID, limit, skip)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, EntriesResponse{
			Success: false, Message: "Failed to fetch entries", Entries: []models.JournalEntry{},
		})
		return
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: entries, Total: total})
}

// UpdateEntry edits an entry owned by the caller.
func UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Title and content are required"})
		return
	}

	entry := models.JournalEntry{
		ID:       entryID,
		Title:    req.Title,
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		Tags:     req.Tags,
	}
	if entry.Tags == nil {
		entry.Tags = models.TagList{}
	}

	if err := entryStore.Update(r.Context(), userID, &entry); err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Entry not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to update entry"})
		return
	}

	updated, err := entryStore.Get(r.Context(), userID, entryID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to load updated entry"})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Message: "Entry updated successfully", Entry: updated})
}

// DeleteEntry removes an entry owned by the caller.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{Success: false, Message: "Invalid entry id"})
		return
	}

	if err := entryStore.Delete(r.Context(), userID, entryID); err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, EntryResponse{Success: false, Message: "Entry not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, EntryResponse{Success: false, Message: "Failed to delete entry"})
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Message: "Entry deleted successfully"})
}
