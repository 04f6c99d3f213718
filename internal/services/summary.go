package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/devjournal/devjournal-backend/internal/models"
)

// EntryLister is the read side of the entry store the summary pipeline needs.
type EntryLister interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.JournalEntry, error)
}

// SummarySaver persists generated summaries for the history view. Saving is
// best-effort; the pipeline result never depends on it.
type SummarySaver interface {
	Save(ctx context.Context, userID uuid.UUID, summary models.GeneratedSummary) error
}

// SummaryService turns a caller's whole journal into one AI-written summary.
// One linear pipeline: list entries, build the prompt, one completion call,
// extract and validate the JSON object. No retries, no intermediate state.
type SummaryService struct {
	Entries EntryLister
	AI      Completer
	History SummarySaver // optional
}

// Generate produces a summary of all the caller's entries, newest first.
// Returns ErrNoEntries without touching the completion API when the caller
// has nothing to summarize.
func (s *SummaryService) Generate(ctx context.Context, ownerID uuid.UUID) (*models.GeneratedSummary, error) {
	entries, err := s.Entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	log.Printf("[Summary] Found %d entries, generating summary...", len(entries))

	reply, err := s.AI.Complete(ctx, buildSummaryPrompt(entries))
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(reply, JSONObject)
	if err != nil {
		log.Printf("[Summary] Could not extract JSON from response (%d bytes)", len(reply))
		return nil, err
	}

	summary, err := parseSummary(raw)
	if err != nil {
		return nil, err
	}

	if s.History != nil {
		if err := s.History.Save(ctx, ownerID, *summary); err != nil {
			log.Printf("[Summary] Failed to save summary history: %v", err)
		}
	}

	return summary, nil
}

// buildSummaryPrompt serializes the entries in retrieval order (newest first)
// and wraps them in the instruction prompt. The ordering of the blocks is the
// only ordering guarantee the prompt offers the model.
func buildSummaryPrompt(entries []models.JournalEntry) string {
	blocks := make([]string, 0, len(entries))
	for i, entry := range entries {
		category := entry.Category
		if category == "" {
			category = "None"
		}
		tags := strings.Join(entry.Tags, ", ")
		if tags == "" {
			tags = "None"
		}
		blocks = append(blocks, fmt.Sprintf(
			"Entry %d (%s):\nTitle: %s\nCategory: %s\nTags: %s\nContent: %s\n",
			i+1, entry.CreatedAt.Format("2006-01-02"), entry.Title, category, tags, entry.Content))
	}

	return fmt.Sprintf(`You are an AI assistant analyzing a developer's journal entries. Based on the following %d journal entries, provide a comprehensive analysis in JSON format.

Journal Entries:
%s

Please analyze these entries and provide:
1. A concise overview (2-3 sentences) of their development journey and progress
2. 3-4 key insights about their learning patterns, work style, or growth areas
3. 2-3 recent achievements or milestones
4. A list of technologies/topics they're focusing on (extract from categories, tags, and content)
5. 3-4 actionable recommendations for their continued growth

Return ONLY a valid JSON object with this exact structure:
{
  "overview": "string",
  "insights": ["string", "string", "string"],
  "achievements": ["string", "string", "string"],
  "technologies": ["string", "string", ...],
  "recommendations": ["string", "string", "string"]
}`, len(entries), strings.Join(blocks, "\n---\n"))
}

// parseSummary decodes the extracted object and requires all five fields to be
// present with the right types. Anything less is malformed model output.
func parseSummary(raw json.RawMessage) (*models.GeneratedSummary, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, ErrMalformedOutput
	}
	for _, key := range []string{"overview", "insights", "achievements", "technologies", "recommendations"} {
		if _, ok := fields[key]; !ok {
			return nil, ErrMalformedOutput
		}
	}

	var summary models.GeneratedSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, ErrMalformedOutput
	}
	if summary.Overview == "" {
		return nil, ErrMalformedOutput
	}
	// Achievements and technologies may legitimately be empty; normalize nils
	// so the response always carries arrays.
	if summary.Insights == nil {
		summary.Insights = []string{}
	}
	if summary.Achievements == nil {
		summary.Achievements = []string{}
	}
	if summary.Technologies == nil {
		summary.Technologies = []string{}
	}
	if summary.Recommendations == nil {
		summary.Recommendations = []string{}
	}
	return &summary, nil
}
