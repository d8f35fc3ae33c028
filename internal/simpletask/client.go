package simpletask

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 10
	defaultBurst   = 5

	// maxResponseSize caps how much of an upstream body is read, both for
	// payloads and for the raw text carried on an UpstreamError.
	maxResponseSize = 8 << 20
)

// Config configures the SimpleTask API client.
type Config struct {
	// BaseURL is the API root, e.g. https://aitistra.com/api.
	BaseURL string

	// Timeout is the per-request deadline. Default: 30s.
	Timeout time.Duration

	// RequestsPerSecond limits outbound call rate. Default: 10.
	RequestsPerSecond float64

	// Logger for structured logging.
	Logger *zap.Logger
}

// Client performs one authenticated HTTPS JSON call per adapter operation
// against the SimpleTask API. It holds no tenant data between calls.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a SimpleTask API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), defaultBurst),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// do issues a single authenticated request and decodes the JSON response into
// out when out is non-nil. Non-2xx statuses become *UpstreamError, network
// failures *TransportError, and deadline expiry *TimeoutError. Nothing is
// retried.
func (c *Client) do(ctx context.Context, tenant registry.Definition, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tenant.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Err: err}
		}
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Err: err}
		}
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("simpletask api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("project", tenant.Key),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func taskPath(tenant registry.Definition, parts ...string) string {
	segs := []string{"", "projects", url.PathEscape(tenant.ProjectID), "tasks"}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

// ListTasks fetches every task in the tenant's project. The upstream list
// endpoint is unbounded; callers paginate locally.
func (c *Client) ListTasks(ctx context.Context, tenant registry.Definition) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, tenant, http.MethodGet, taskPath(tenant), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches one task by ID.
func (c *Client) GetTask(ctx context.Context, tenant registry.Definition, taskID string) (*Task, error) {
	var task Task
	if err := c.do(ctx, tenant, http.MethodGet, taskPath(tenant, taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTaskRequest carries the caller-supplied fields for task creation.
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    Priority        `json:"priority,omitempty"`
	Status      Status          `json:"status,omitempty"`
	DependsOn   []string        `json:"depends_on,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	AssignedTo  string          `json:"assigned_to,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
}

// CreateTask creates a task in the tenant's project.
func (c *Client) CreateTask(ctx context.Context, tenant registry.Definition, req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.do(ctx, tenant, http.MethodPost, taskPath(tenant), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskRequest carries a partial task update. Nil fields are untouched.
// ClearDueDate sends an explicit null for due_date, which the upstream
// treats as removing the date; DueDate is ignored when it is set.
type UpdateTaskRequest struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Priority     *Priority        `json:"priority,omitempty"`
	Status       *Status          `json:"status,omitempty"`
	DependsOn    *[]string        `json:"depends_on,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	ClearDueDate bool             `json:"-"`
	AssignedTo   *string          `json:"assigned_to,omitempty"`
	Checklist    *[]ChecklistItem `json:"checklist,omitempty"`
}

func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	type plain UpdateTaskRequest
	if !r.ClearDueDate {
		return json.Marshal(plain(r))
	}
	r.DueDate = nil
	data, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["due_date"] = json.RawMessage("null")
	return json.Marshal(fields)
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, tenant registry.Definition, taskID string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.do(ctx, tenant, http.MethodPatch, taskPath(tenant, taskID), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus moves a task to a new workflow status.
func (c *Client) UpdateTaskStatus(ctx context.Context, tenant registry.Definition, taskID string, status Status) (*Task, error) {
	return c.UpdateTask(ctx, tenant, taskID, UpdateTaskRequest{Status: &status})
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, tenant registry.Definition, taskID string) error {
	return c.do(ctx, tenant, http.MethodDelete, taskPath(tenant, taskID), nil, nil)
}

// ListComments fetches the comments on a task.
func (c *Client) ListComments(ctx context.Context, tenant registry.Definition, taskID string) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, tenant, http.MethodGet, taskPath(tenant, taskID)+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment adds a comment to a task. parentID may be empty for a top-level
// comment or reference another comment for threading.
func (c *Client) AddComment(ctx context.Context, tenant registry.Definition, taskID, content, parentID string) (*Comment, error) {
	body := map[string]string{"content": content}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	var comment Comment
	if err := c.do(ctx, tenant, http.MethodPost, taskPath(tenant, taskID)+"/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces a comment's content. Comment mutation is addressed
// by comment ID, not project path, per the upstream API.
func (c *Client) UpdateComment(ctx context.Context, tenant registry.Definition, commentID, content string) (*Comment, error) {
	var comment Comment
	path := "/comments/" + url.PathEscape(commentID)
	if err := c.do(ctx, tenant, http.MethodPut, path, map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment by ID.
func (c *Client) DeleteComment(ctx context.Context, tenant registry.Definition, commentID string) error {
	return c.do(ctx, tenant, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil, nil)
}
