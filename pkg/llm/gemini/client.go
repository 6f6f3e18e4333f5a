package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	maxAttempts    = 3
)

// Client is a minimal Gemini generateContent client.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string

	httpDo     *http.Client
	retryDelay time.Duration
}

func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		httpDo: &http.Client{
			Timeout: 60 * time.Second,
		},
		retryDelay: 3 * time.Second,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content struct {
		Parts []part `json:"parts"`
	} `json:"content"`
	FinishReason string `json:"finishReason"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

// GenerateText sends the prompt to the Gemini API and returns the first
// generated text. A 503 (model overloaded) is retried up to 3 attempts with a
// flat delay; any other non-success status fails immediately.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("gemini api key is empty")
	}
	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)

	var lastStatus int
	var lastBody []byte
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpDo.Do(httpReq)
		if err != nil {
			return "", err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var out generateContentResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return "", fmt.Errorf("decode gemini response: %w", err)
			}
			if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
				return "", errors.New("no candidates returned by model")
			}
			return out.Candidates[0].Content.Parts[0].Text, nil
		}

		// Model overloaded: retry with a flat delay.
		if resp.StatusCode == http.StatusServiceUnavailable && attempt < maxAttempts {
			lastStatus, lastBody = resp.StatusCode, body
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			continue
		}

		return "", fmt.Errorf("gemini http %d: %s", resp.StatusCode, body)
	}
	return "", fmt.Errorf("gemini overloaded after %d attempts (last http %d: %s)", maxAttempts, lastStatus, lastBody)
}
