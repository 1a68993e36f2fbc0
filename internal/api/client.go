package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the default per-request timeout for backend calls.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements Client against the backend's REST endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewHTTPClient creates an HTTPClient for the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
	}
}

// WithTimeout returns a new HTTPClient with the specified per-request timeout.
func (c *HTTPClient) WithTimeout(d time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: c.baseURL,
		http:    c.http,
		timeout: d,
	}
}

// Tasks retrieves all tasks for a project.
func (c *HTTPClient) Tasks(ctx context.Context, projectID int64) ([]Task, error) {
	var env tasksEnvelope
	url := fmt.Sprintf("%s/api/project/%d/tasks", c.baseURL, projectID)
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, fmt.Errorf("fetch tasks for project %d: %w", projectID, err)
	}
	return env.Tasks, nil
}

// Dependencies retrieves all task dependencies for a project.
func (c *HTTPClient) Dependencies(ctx context.Context, projectID int64) ([]Dependency, error) {
	var env dependenciesEnvelope
	url := fmt.Sprintf("%s/api/project/%d/dependencies", c.baseURL, projectID)
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, fmt.Errorf("fetch dependencies for project %d: %w", projectID, err)
	}
	return env.Dependencies, nil
}

// FleshOut asks the backend to expand a task into more detail/subtasks.
// Only the HTTP status is relied upon; any response body is discarded.
func (c *HTTPClient) FleshOut(ctx context.Context, id TaskID) error {
	url := fmt.Sprintf("%s/api/task/%s/flesh_out", c.baseURL, id)
	if err := c.postJSON(ctx, url, nil); err != nil {
		return fmt.Errorf("flesh out task %s: %w", id, err)
	}
	return nil
}

// Rename changes a task's display name.
func (c *HTTPClient) Rename(ctx context.Context, id TaskID, name string) error {
	url := fmt.Sprintf("%s/api/task/%s/rename", c.baseURL, id)
	body := map[string]string{"name": name}
	if err := c.postJSON(ctx, url, body); err != nil {
		return fmt.Errorf("rename task %s: %w", id, err)
	}
	return nil
}

// Delete removes a task and its dependency records.
func (c *HTTPClient) Delete(ctx context.Context, id TaskID) error {
	url := fmt.Sprintf("%s/api/task/%s/delete", c.baseURL, id)
	if err := c.postJSON(ctx, url, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// getJSON issues a GET request and decodes the JSON response into out.
func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// postJSON issues a POST request with an optional JSON body. The response
// body is discarded; only the HTTP status matters.
func (c *HTTPClient) postJSON(ctx context.Context, url string, body any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// checkStatus converts a non-2xx response into an error, including the
// backend's error message when one is present.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != "" {
		return fmt.Errorf("backend returned %s: %s", resp.Status, env.Error)
	}
	return fmt.Errorf("backend returned %s", resp.Status)
}

// Verify HTTPClient implements Client interface.
var _ Client = (*HTTPClient)(nil)
