package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func successBody(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return b
}

func TestGenerateText_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Equal(t, "say hi", req.Contents[0].Parts[0].Text)
		w.Write(successBody("hello"))
	}))
	defer srv.Close()

	c := New("key", srv.URL, "gemini-2.0-flash")
	got, err := c.GenerateText(context.Background(), "say hi")
	require.NoError(t, err)
	require.Equal(t, "hello", got)
	require.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
}

func TestGenerateText_RetriesOn503(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(successBody("recovered"))
	}))
	defer srv.Close()

	c := New("key", srv.URL, "")
	c.retryDelay = time.Millisecond

	got, err := c.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "recovered", got)
	require.Equal(t, 3, calls)
}

func TestGenerateText_GivesUpAfterPersistent503(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New("key", srv.URL, "")
	c.retryDelay = time.Millisecond

	_, err := c.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
	require.Equal(t, 3, calls)
}

func TestGenerateText_FailsFastOnOtherStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad prompt"}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL, "")
	_, err := c.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "gemini http 400")
	require.Equal(t, 1, calls)
}

func TestGenerateText_MissingAPIKey(t *testing.T) {
	c := New("", "", "")
	_, err := c.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
}

func TestGenerateText_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL, "")
	_, err := c.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
}
