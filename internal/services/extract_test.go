package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_ObjectInProse(t *testing.T) {
	text := "Sure! Here's your analysis:\n```json\n{\"overview\": \"good\"}\n```\nHope that helps."

	raw, err := ExtractJSON(text, JSONObject)
	require.NoError(t, err)
	assert.JSONEq(t, `{"overview": "good"}`, string(raw))
}

func TestExtractJSON_ArrayInProse(t *testing.T) {
	text := "Here are the entries: [{\"title\": \"a\"}, {\"title\": \"b\"}] done."

	raw, err := ExtractJSON(text, JSONArray)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title": "a"}, {"title": "b"}]`, string(raw))
}

func TestExtractJSON_GreedySpan(t *testing.T) {
	// Nested objects: first '{' through last '}' must cover the whole thing.
	text := `{"a": {"b": 1}, "c": {"d": 2}}`

	raw, err := ExtractJSON(text, JSONObject)
	require.NoError(t, err)
	assert.Equal(t, text, string(raw))
}

func TestExtractJSON_NoDelimiters(t *testing.T) {
	_, err := ExtractJSON("I could not produce any JSON for that.", JSONObject)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestExtractJSON_InvalidPayload(t *testing.T) {
	_, err := ExtractJSON(`prefix {"overview": } suffix`, JSONObject)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestExtractJSON_WrongKind(t *testing.T) {
	// Object reply when an array was requested.
	_, err := ExtractJSON(`{"title": "a"}`, JSONArray)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}
