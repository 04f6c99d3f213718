package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/devjournal/devjournal-backend/internal/realtime"
)

// maxResumeSize caps resume uploads at 10MB.
const maxResumeSize = 10 << 20

// allowedResumeExts is the upload allow-list. Binary formats are accepted but
// only ever read as text downstream.
var allowedResumeExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".pdf":  true,
	".docx": true,
}

type UploadResumeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// UploadResume stores an uploaded resume and returns the path to pass to the
// parse endpoint.
func UploadResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	if storageSvc == nil {
		writeJSON(w, http.StatusInternalServerError, UploadResumeResponse{
			Success: false, Message: "File storage is not configured",
		})
		return
	}

	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResumeResponse{
			Success: false, Message: "Failed to parse form: " + err.Error(),
		})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResumeResponse{
			Success: false, Message: "No file provided",
		})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedResumeExts[ext] {
		writeJSON(w, http.StatusBadRequest, UploadResumeResponse{
			Success: false, Message: "Unsupported file type. Upload a .txt, .md, .pdf or .docx file",
		})
		return
	}

	path, err := storageSvc.Upload(r.Context(), userID, file, fileHeader.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, UploadResumeResponse{
			Success: false, Message: "Failed to upload file",
		})
		return
	}

	writeJSON(w, http.StatusOK, UploadResumeResponse{
		Success:  true,
		Message:  "File uploaded successfully",
		FilePath: path,
	})
}

type ParseResumeRequest struct {
	FilePath string `json:"filePath"`
}

type ParseResumeResponse struct {
	Message        string `json:"message"`
	EntriesCreated int    `json:"entriesCreated"`
}

// ParseResume runs the resume import pipeline on a previously uploaded file.
func ParseResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req ParseResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := resumeSvc.Import(r.Context(), userID, req.FilePath)
	if err != nil {
		writeError(w, pipelineStatus(err), err.Error())
		return
	}

	publish(userID, realtime.ImportCompletedType, map[string]int{"entriesCreated": created})

	writeJSON(w, http.StatusOK, ParseResumeResponse{
		Message:        "Resume parsed successfully",
		EntriesCreated: created,
	})
}
