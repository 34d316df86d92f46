// Package gemini is a minimal client for the generateContent REST endpoint.
// It deliberately stays at the wire level: the pipeline's failure semantics
// depend on seeing non-2xx statuses and malformed bodies as ordinary errors.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Gemini API models root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GenerationConfig tunes a single generateContent call.
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// Client calls one Gemini model.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

// NewClient creates a Client. An empty baseURL selects the public endpoint;
// timeout bounds every call so an unreachable endpoint cannot hang a cycle.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type request struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type response struct {
	Candidates []candidate `json:"candidates"`
}

// GenerateContent sends one prompt and returns the first candidate's text.
// Non-2xx statuses, malformed bodies, and empty candidate lists are all
// plain errors for the caller's fallback policy to handle.
func (c *Client) GenerateContent(ctx context.Context, prompt string, cfg *GenerationConfig) (string, error) {
	body, err := json.Marshal(request{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s:generateContent: %w", c.model, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s:generateContent returned %s", c.model, resp.Status)
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in %s response", c.model)
	}
	return r.Candidates[0].Content.Parts[0].Text, nil
}
