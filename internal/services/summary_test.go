package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devjournal/devjournal-backend/internal/models"
)

type fakeLister struct {
	entries []models.JournalEntry
	err     error
}

func (f *fakeLister) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.JournalEntry, error) {
	return f.entries, f.err
}

type fakeCompleter struct {
	reply  string
	err    error
	called bool
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.called = true
	f.prompt = prompt
	return f.reply, f.err
}

type fakeSaver struct {
	saved []models.GeneratedSummary
	err   error
}

func (f *fakeSaver) Save(ctx context.Context, userID uuid.UUID, summary models.GeneratedSummary) error {
	f.saved = append(f.saved, summary)
	return f.err
}

func testEntries() []models.JournalEntry {
	return []models.JournalEntry{
		{
			Title:     "Shipped auth service",
			Content:   "Rolled out the new session layer.",
			Category:  "Work",
			Tags:      models.TagList{"Go", "Redis"},
			CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			Title:     "Learned about indexes",
			Content:   "Read up on partial indexes.",
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestSummaryGenerate_NoEntries(t *testing.T) {
	ai := &fakeCompleter{}
	svc := &SummaryService{Entries: &fakeLister{}, AI: ai}

	_, err := svc.Generate(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrNoEntries)
	assert.False(t, ai.called, "completion API must not be called with nothing to summarize")
}

func TestSummaryGenerate_Success(t *testing.T) {
	ai := &fakeCompleter{reply: `Here you go:
{"overview": "Strong month.", "insights": ["ships fast"], "achievements": [], "technologies": ["Go"], "recommendations": ["write more tests"]}`}
	saver := &fakeSaver{}
	svc := &SummaryService{Entries: &fakeLister{entries: testEntries()}, AI: ai, History: saver}

	summary, err := svc.Generate(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "Strong month.", summary.Overview)
	assert.Equal(t, []string{"ships fast"}, summary.Insights)
	assert.Equal(t, []string{}, summary.Achievements)
	assert.Equal(t, []string{"Go"}, summary.Technologies)
	assert.Equal(t, []string{"write more tests"}, summary.Recommendations)

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "Strong month.", saver.saved[0].Overview)
}

func TestSummaryGenerate_PromptContents(t *testing.T) {
	ai := &fakeCompleter{reply: `{"overview": "x", "insights": [], "achievements": [], "technologies": [], "recommendations": []}`}
	svc := &SummaryService{Entries: &fakeLister{entries: testEntries()}, AI: ai}

	_, err := svc.Generate(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Contains(t, ai.prompt, "2 journal entries")
	assert.Contains(t, ai.prompt, "Entry 1 (2026-03-02):")
	assert.Contains(t, ai.prompt, "Entry 2 (2026-03-01):")
	assert.Contains(t, ai.prompt, "Tags: Go, Redis")
	// Missing category and tags show up as the None placeholder.
	assert.Contains(t, ai.prompt, "Category: None")
	// Retrieval order is preserved in the prompt.
	assert.Less(t,
		strings.Index(ai.prompt, "Shipped auth service"),
		strings.Index(ai.prompt, "Learned about indexes"))
}

func TestSummaryGenerate_MissingField(t *testing.T) {
	// "recommendations" absent: all five fields are required.
	ai := &fakeCompleter{reply: `{"overview": "x", "insights": [], "achievements": [], "technologies": []}`}
	svc := &SummaryService{Entries: &fakeLister{entries: testEntries()}, AI: ai}

	_, err := svc.Generate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestSummaryGenerate_NoJSONInReply(t *testing.T) {
	ai := &fakeCompleter{reply: "I'm sorry, I can't summarize these entries."}
	svc := &SummaryService{Entries: &fakeLister{entries: testEntries()}, AI: ai}

	_, err := svc.Generate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestSummaryGenerate_UpstreamErrorPassthrough(t *testing.T) {
	upstream := &UpstreamError{StatusCode: 503, Body: "overloaded"}
	svc := &SummaryService{Entries: &fakeLister{entries: testEntries()}, AI: &fakeCompleter{err: upstream}}

	_, err := svc.Generate(context.Background(), uuid.New())

	var got *UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 503, got.StatusCode)
}

func TestSummaryGenerate_HistoryFailureIgnored(t *testing.T) {
	ai := &fakeCompleter{reply: `{"overview": "x", "insights": [], "achievements": [], "technologies": [], "recommendations": []}`}
	saver := &fakeSaver{err: errors.New("mongo down")}
	svc := &SummaryService{Entries: &fakeLister{entries: testEntries()}, AI: ai, History: saver}

	summary, err := svc.Generate(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "x", summary.Overview)
}
