package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"podvox/types"
)

// GenerateRequest mirrors the API's voicenote-generation payload.
type GenerateRequest struct {
	ProspectName string `json:"prospect_name"`
	PodcastName  string `json:"podcast_name,omitempty"`
	PodcastURL   string `json:"podcast_url,omitempty"`
	FeedURL      string `json:"feed_url,omitempty"`
	QueryTopic   string `json:"query_topic,omitempty"`
	Tone         string `json:"tone,omitempty"`
	TargetLength int    `json:"target_length,omitempty"`
	SkipVoice    bool   `json:"skip_voice,omitempty"`
}

// APIClient is a thin HTTP client for the podvox API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new API client. Pipeline runs block on several
// vendor calls, so the timeout is generous.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// Health checks whether the API server is reachable.
func (c *APIClient) Health() error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(c.baseURL + "/api/health")
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil
}

// Generate runs the full pipeline and returns the result. Non-200 responses
// still carry a step log in the error payload; it is surfaced in the error.
func (c *APIClient) Generate(req GenerateRequest) (*types.PipelineResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to call generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var failure struct {
			Error string   `json:"error"`
			Steps []string `json:"processing_steps"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return nil, fmt.Errorf("%s", failure.Error)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var result types.PipelineResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
