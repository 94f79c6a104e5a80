package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"easel/internal/logging"
	"easel/internal/services"
	"easel/internal/workflow"
)

const defaultRequestTimeout = 30 * time.Second

// Client talks to a ComfyUI-compatible REST endpoint. Job submission and
// history polling are the only two calls the pipeline needs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the given base URL. A nil logger disables
// client logging.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     logger,
	}
}

// BaseURL reports the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type submitRequest struct {
	Prompt workflow.Document `json:"prompt"`
}

type submitResponse struct {
	PromptID string `json:"prompt_id"`
}

// Submit posts a patched workflow and returns the job handle the service
// assigns. A non-success response carries the server body in the error so
// template mistakes stay diagnosable.
func (c *Client) Submit(ctx context.Context, doc workflow.Document) (string, error) {
	body, err := json.Marshal(submitRequest{Prompt: doc})
	if err != nil {
		return "", services.Wrap(services.ErrSubmission, "submit", "encode", "encode workflow payload", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return "", services.Wrap(services.ErrSubmission, "submit", "request", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrSubmission, "submit", "post", "post workflow", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", services.Wrap(services.ErrSubmission, "submit", "post",
			fmt.Sprintf("service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))), nil)
	}

	var parsed submitResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", services.Wrap(services.ErrSubmission, "submit", "decode", "decode submission response", err)
	}
	if parsed.PromptID == "" {
		return "", services.Wrap(services.ErrSubmission, "submit", "decode", "submission response missing prompt_id", nil)
	}
	c.logger.Debug("workflow submitted", logging.String("prompt_id", parsed.PromptID))
	return parsed.PromptID, nil
}

// History fetches the history record for a job. An empty history means the
// job has not finished; transport and decode problems are also reported as
// not-finished so the poll loop keeps trying until its deadline.
func (c *Client) History(ctx context.Context, promptID string) (History, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history/"+promptID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug("history fetch failed", logging.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	var h History
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		c.logger.Debug("history decode failed", logging.Error(err))
		return nil, nil
	}
	return h, nil
}

// WaitForHistory polls at a fixed interval until the job reports a non-empty
// history or the timeout elapses.
func (c *Client) WaitForHistory(ctx context.Context, promptID string, timeout, interval time.Duration) (History, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		h, err := c.History(ctx, promptID)
		if err != nil {
			return nil, err
		}
		if len(h) > 0 {
			return h, nil
		}
		if time.Now().After(deadline) {
			return nil, services.Wrap(services.ErrTimeout, "poll", "history",
				fmt.Sprintf("no result for %s within %s", promptID, timeout), nil)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
