// Package simpletask provides the HTTP gateway to the SimpleTask
// project-management API and the response shapes it returns.
//
// The gateway is a thin pass-through: every read re-fetches from the remote
// API, nothing is cached or persisted, and no call is ever retried (the
// upstream API has no idempotency keys, so a retried mutation could create
// duplicate tasks).
package simpletask

import (
	"fmt"
	"time"
)

// Priority is a task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists all valid priority values.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority validates a caller-supplied priority string.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q (valid: low, medium, high)", s)
}

// Status is a task workflow status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Statuses lists all valid status values.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusReview, StatusCompleted, StatusBlocked}
}

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted, StatusBlocked:
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q (valid: todo, in_progress, review, completed, blocked)", s)
}

// ChecklistItem is one step of a task's embedded checklist. Order values are
// not guaranteed unique or contiguous; callers sort by Order when sequencing.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	Completed bool   `json:"completed"`
}

// Task is the remote-owned task entity, mirrored locally only as a transient
// response shape. DependsOn references task IDs within the same project; the
// gateway does not validate acyclicity.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    Priority        `json:"priority"`
	Status      Status          `json:"status"`
	SortOrder   float64         `json:"sort_order"`
	DependsOn   []string        `json:"depends_on,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	AssignedTo  string          `json:"assigned_to,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
}

// Summary is the reduced projection of a Task used when callers do not need
// full data. It exists purely to keep list responses small for LLM consumers.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Status     Status    `json:"status"`
	Priority   Priority  `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
	AssignedTo string    `json:"assigned_to,omitempty"`
}

// Summarize projects a task to its summary fields.
func (t Task) Summarize() Summary {
	return Summary{
		ID:         t.ID,
		Title:      t.Title,
		Status:     t.Status,
		Priority:   t.Priority,
		CreatedAt:  t.CreatedAt,
		AssignedTo: t.AssignedTo,
	}
}

// Summarize projects a task list to summaries, preserving order.
func Summarize(tasks []Task) []Summary {
	out := make([]Summary, len(tasks))
	for i, t := range tasks {
		out[i] = t.Summarize()
	}
	return out
}

// Comment is a task comment. ParentID is a weak threading reference to
// another comment's ID; the gateway does not validate it.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parent_id,omitempty"`
	AuthorID  string    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
