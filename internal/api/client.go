// Package api is the HTTP client for the task service, used by the
// terminal UI and the CLI commands.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// Error is a non-2xx response from the task service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("task service: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is the service's not-found response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// TokenFunc supplies the bearer token for each request, so a refreshed
// session is picked up without rebuilding the client. It may return ""
// when signed out.
type TokenFunc func() string

// Client calls the task service.
type Client struct {
	baseURL string
	token   TokenFunc
	client  *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, token TokenFunc) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches the whole task collection.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create submits a new task and returns the stored record, id included.
func (c *Client) Create(ctx context.Context, t task.Task) (*task.Task, error) {
	var created task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial update and returns the updated record.
func (c *Client) Update(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+id, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// AddComment appends one comment and returns the updated record.
func (c *Client) AddComment(ctx context.Context, id string, comment task.Comment) (*task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+id+"/comments", comment, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpsertProfile records the profile row written after sign-up.
func (c *Client) UpsertProfile(ctx context.Context, id, email string) error {
	body := map[string]string{"id": id, "email": email}
	return c.do(ctx, http.MethodPost, "/profiles", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("task service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	if body.Error == "" {
		body.Error = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: body.Error}
}
