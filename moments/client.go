package moments

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

// Sentinel errors for the content-analysis client. Callers branch with
// errors.Is rather than matching message text.
var (
	// ErrExtraction marks a failed moments-extraction call.
	ErrExtraction = errors.New("moments extraction failed")

	// ErrAnalysis marks a failed ask/context-analysis call.
	ErrAnalysis = errors.New("content analysis failed")

	// ErrUpstreamShape marks a vendor response that does not match the
	// documented shape (e.g. a moment record missing its time range).
	ErrUpstreamShape = errors.New("unexpected upstream response shape")
)

const (
	momentsFunction = "sieve/moments"
	askFunction     = "sieve/ask"

	defaultPollInterval = 2 * time.Second
)

// Client wraps the content-analysis service's job API: push a job, poll
// until it resolves, decode its outputs.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (mainly for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval overrides the job poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient creates a content-analysis client for the given API base URL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pushRequest struct {
	Function string                 `json:"function"`
	Inputs   map[string]interface{} `json:"inputs"`
}

type pushResponse struct {
	ID string `json:"id"`
}

type jobResponse struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Outputs json.RawMessage `json:"outputs,omitempty"`
}

// pushJob submits a job and returns its ID.
func (c *Client) pushJob(ctx context.Context, function string, inputs map[string]interface{}) (string, error) {
	body, err := json.Marshal(pushRequest{Function: function, Inputs: inputs})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/push", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("push %s: status %d: %s", function, resp.StatusCode, bytes.TrimSpace(b))
	}

	var parsed pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("push %s: %w: missing job id", function, ErrUpstreamShape)
	}
	return parsed.ID, nil
}

// waitForJob polls the job until it finishes, returning its raw outputs.
// Cancellation is only honored between polls; an issued job itself cannot
// be aborted.
func (c *Client) waitForJob(ctx context.Context, jobID string) (json.RawMessage, error) {
	for {
		job, err := c.getJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case "finished", "completed":
			return job.Outputs, nil
		case "error", "failed", "cancelled":
			msg := job.Error
			if msg == "" {
				msg = "job " + job.Status
			}
			return nil, fmt.Errorf("job %s: %s", jobID, msg)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) getJob(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job %s: status %d: %s", jobID, resp.StatusCode, bytes.TrimSpace(b))
	}

	var parsed jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// runJob pushes a job and blocks until its outputs are available.
func (c *Client) runJob(ctx context.Context, function string, inputs map[string]interface{}) (json.RawMessage, error) {
	jobID, err := c.pushJob(ctx, function, inputs)
	if err != nil {
		return nil, err
	}
	return c.waitForJob(ctx, jobID)
}
