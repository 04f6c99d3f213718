package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/devjournal/devjournal-backend/internal/models"
)

// resumeTextLimit bounds how much resume text goes into the prompt.
const resumeTextLimit = 5000

// truncationMarker is appended when the resume text was cut at the limit.
const truncationMarker = " ... (truncated)"

// EntryInserter is the write side of the entry store the import needs.
type EntryInserter interface {
	InsertBatch(ctx context.Context, entries []models.JournalEntry) error
}

// BlobStore is the uploaded-resume storage dependency.
type BlobStore interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// ResumeService extracts career history from an uploaded resume and persists
// it as journal entries. Like the summary pipeline it is one linear sequence;
// a failure anywhere means the caller retries the whole import.
type ResumeService struct {
	Entries EntryInserter
	Blobs   BlobStore
	AI      Completer
}

// entryCandidate is one proposed journal entry in the model's reply.
type entryCandidate struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Category string         `json:"category"`
	Tags     models.TagList `json:"tags"`
}

// Import downloads the stored resume, asks the model for 3-5 journal entry
// candidates and inserts them in a single transaction. The stored blob is
// deleted best-effort afterwards, success or failure, without masking the
// pipeline error. Returns the number of entries created.
func (s *ResumeService) Import(ctx context.Context, ownerID uuid.UUID, filePath string) (int, error) {
	if strings.TrimSpace(filePath) == "" {
		return 0, fmt.Errorf("file path is required: %w", ErrInvalidRequest)
	}
	if s.Blobs == nil {
		return 0, fmt.Errorf("file storage is not configured: %w", ErrInvalidRequest)
	}
	// Paths are keyed by owner at upload time; refuse anything outside the
	// caller's folder so one user cannot import another user's upload.
	if !ResumeBelongsTo(filePath, ownerID) {
		return 0, fmt.Errorf("file path is not owned by the caller: %w", ErrInvalidRequest)
	}

	data, err := s.Blobs.Download(ctx, filePath)
	if err != nil {
		return 0, &StorageError{Op: "download", Err: err}
	}
	defer func() {
		// Avoid leaking uploaded resumes even when the import fails.
		if err := s.Blobs.Delete(context.WithoutCancel(ctx), filePath); err != nil {
			log.Printf("[Resume] Failed to delete uploaded file %s: %v", filePath, err)
		}
	}()

	text := TruncateResumeText(string(data))
	log.Printf("[Resume] File content length: %d characters", utf8.RuneCountInString(text))

	reply, err := s.AI.Complete(ctx, buildResumePrompt(text))
	if err != nil {
		return 0, err
	}

	raw, err := ExtractJSON(reply, JSONArray)
	if err != nil {
		log.Printf("[Resume] Could not extract JSON array from response (%d bytes)", len(reply))
		return 0, err
	}

	var candidates []entryCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return 0, ErrMalformedOutput
	}

	entries := make([]models.JournalEntry, 0, len(candidates))
	for _, c := range candidates {
		title := strings.TrimSpace(c.Title)
		content := strings.TrimSpace(c.Content)
		if title == "" || content == "" {
			// Entries must never be empty; skip candidates that would break that.
			continue
		}
		entries = append(entries, models.JournalEntry{
			UserID:   ownerID,
			Title:    title,
			Content:  content,
			Category: strings.TrimSpace(c.Category),
			Tags:     models.NormalizeTags(c.Tags),
		})
	}
	if len(entries) == 0 {
		return 0, ErrMalformedOutput
	}

	if err := s.Entries.InsertBatch(ctx, entries); err != nil {
		return 0, err
	}

	log.Printf("[Resume] Created %d entries from resume", len(entries))
	return len(entries), nil
}

// TruncateResumeText sanitizes the raw upload to valid UTF-8 and cuts it to
// the prompt budget, appending the truncation marker when the original was
// longer. Counts runes so multi-byte text is never cut mid-character.
func TruncateResumeText(text string) string {
	text = strings.ToValidUTF8(text, "")
	runes := []rune(text)
	if len(runes) <= resumeTextLimit {
		return text
	}
	return string(runes[:resumeTextLimit]) + truncationMarker
}

func buildResumePrompt(text string) string {
	return fmt.Sprintf(`You are an AI assistant that extracts key information from resumes. Analyze the following resume text and extract:

1. Work Experience: List each job/role with company, title, duration, and key achievements
2. Projects: Notable projects mentioned
3. Skills & Technologies: Technical skills and tools mentioned
4. Education: Degrees and certifications

Resume Text:
%s

Create 3-5 journal entries based on this resume. Each entry should focus on a significant role, project, or achievement. Return ONLY a valid JSON array with this structure:
[
  {
    "title": "string (e.g., 'Senior Developer at TechCorp')",
    "content": "string (detailed description of role, achievements, learnings)",
    "category": "string (e.g., 'Experience', 'Project', 'Achievement')",
    "tags": ["string", "string"] (relevant technologies and skills)
  }
]`, text)
}
