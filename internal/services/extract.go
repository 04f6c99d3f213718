package services

import (
	"encoding/json"
	"strings"
)

// JSONKind selects which JSON payload ExtractJSON looks for.
type JSONKind int

const (
	// JSONObject extracts the first '{' through the last '}'.
	JSONObject JSONKind = iota
	// JSONArray extracts the first '[' through the last ']'.
	JSONArray
)

// ExtractJSON pulls a JSON payload out of a free-text model reply. Models wrap
// their output in prose or markdown fences, so the contract is deliberately
// greedy: first opening delimiter through the final closing one. Returns
// ErrMalformedOutput when no such substring exists or it is not valid JSON.
func ExtractJSON(text string, kind JSONKind) (json.RawMessage, error) {
	open, close := "{", "}"
	if kind == JSONArray {
		open, close = "[", "]"
	}

	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start == -1 || end <= start {
		return nil, ErrMalformedOutput
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, ErrMalformedOutput
	}
	return json.RawMessage(candidate), nil
}
