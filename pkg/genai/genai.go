package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// ErrMissingAPIKey is returned when no API key is configured at call time
var ErrMissingAPIKey = errors.New("generative text API key is not set")

// Client represents a Gemini generateContent client
type Client struct {
	APIURL string
	Model  string

	// KeyFunc is called on every request so a rotated key applies immediately
	KeyFunc func() string

	HTTPClient *http.Client
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// GenerateResponse represents the part of the generateContent response we read
type GenerateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient creates a new generative text client
func NewClient(apiURL, model string, keyFunc func() string) *Client {
	return &Client{
		APIURL:     strings.TrimSuffix(apiURL, "/"),
		Model:      model,
		KeyFunc:    keyFunc,
		HTTPClient: &http.Client{},
	}
}

// Text returns the text of the first candidate
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Generate sends a single prompt and returns the completion text.
// Deadlines come from ctx; there is no retry.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	apiKey := ""
	if c.KeyFunc != nil {
		apiKey = c.KeyFunc()
	}
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("Generate: failed to marshal JSON: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.APIURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("Generate: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Generate: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("Generate: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("Generate: API returned status %d (%s): %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("Generate: API returned status %d. Body: %s", resp.StatusCode, string(respBody))
	}

	var result GenerateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("Generate: failed to unmarshal response: %v, body: %s", err, string(respBody))
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("Generate: response had no text")
	}

	log.Printf("Generate successful with model %s, %d chars", c.Model, len(text))
	return text, nil
}
