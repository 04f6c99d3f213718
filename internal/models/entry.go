package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JournalEntry is the single persisted domain entity: one dated note about a
// developer's work, owned by exactly one user for its whole lifetime.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Tags      TagList   `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList is an ordered list of trimmed, non-empty tag labels. It decodes from
// either a JSON array of strings or a single comma-separated string (the entry
// form submits the raw "a, b, c" input).
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*t = ParseTags(raw)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = NormalizeTags(list)
	return nil
}

// MarshalJSON emits an empty array instead of null for nil lists.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// ParseTags splits a comma-separated tag string, trims each element and drops
// empty tokens. "" yields an empty list.
func ParseTags(s string) TagList {
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims every element and drops the empties, preserving order.
func NormalizeTags(in []string) TagList {
	out := make(TagList, 0, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
