package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean_ValidJSONPassesThrough(t *testing.T) {
	in := `{"quiz": [{"question": "Q1?", "correctAnswer": "A"}]}`
	require.Equal(t, in, Clean(in))
}

func TestClean_StripsJSONCodeFence(t *testing.T) {
	in := "```json\n{\"quiz\": []}\n```"
	got := Clean(in)
	require.Equal(t, `{"quiz": []}`, got)
}

func TestClean_StripsBareCodeFence(t *testing.T) {
	in := "```\n{\"quiz\": []}\n```"
	require.Equal(t, `{"quiz": []}`, Clean(in))
}

func TestClean_BackticksBecomeQuotes(t *testing.T) {
	in := "{`question`: `What is Go?`}"
	got := Clean(in)

	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &m))
	require.Equal(t, "What is Go?", m["question"])
}

func TestClean_SingleQuotedKeysAndValues(t *testing.T) {
	in := `{'question': 'What is Go?', 'options': {'A': 'A language', 'B': 'A river'}, 'correctAnswer': 'A'}`
	got := Clean(in)

	var q struct {
		Question      string            `json:"question"`
		Options       map[string]string `json:"options"`
		CorrectAnswer string            `json:"correctAnswer"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &q))
	require.Equal(t, "What is Go?", q.Question)
	require.Equal(t, "A river", q.Options["B"])
	require.Equal(t, "A", q.CorrectAnswer)
}

func TestClean_Empty(t *testing.T) {
	require.Equal(t, "", Clean(""))
	require.Equal(t, "   ", Clean("   "))
}

func TestExtractObject_FromProse(t *testing.T) {
	in := "Sure! Here is the quiz you asked for:\n{\"quiz\": [{\"question\": \"Q1?\"}]}\nLet me know if you need more."
	got, ok := ExtractObject(in)
	require.True(t, ok)
	require.JSONEq(t, `{"quiz": [{"question": "Q1?"}]}`, got)
}

func TestExtractObject_SpansNestedBraces(t *testing.T) {
	in := "prefix {\"a\": {\"b\": 1}, \"c\": 2} suffix"
	got, ok := ExtractObject(in)
	require.True(t, ok)
	require.JSONEq(t, `{"a": {"b": 1}, "c": 2}`, got)
}

func TestExtractObject_NoObject(t *testing.T) {
	_, ok := ExtractObject("no structured data here")
	require.False(t, ok)

	_, ok = ExtractObject("")
	require.False(t, ok)
}
