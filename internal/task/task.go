package task

import (
	"errors"
	"fmt"
	"time"
)

// Status represents where a task sits in its lifecycle.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inProgress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Task is the unit of work tracked by the service.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Priority      Priority   `json:"priority"`
	Category      string     `json:"category,omitempty"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	EstimatedTime *float64   `json:"estimatedTime,omitempty"` // hours
	Status        Status     `json:"status"`
	Comments      []Comment  `json:"comments"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Comment is a single note attached to a task. Comments are append-only
// and keep their insertion order.
type Comment struct {
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrInvalid marks client-correctable validation failures.
var ErrInvalid = errors.New("invalid task")

// ValidStatus reports whether s is one of the four defined statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the four defined priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Validate checks the invariants a task must hold before it is persisted.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if !ValidStatus(t.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, t.Status)
	}
	if !ValidPriority(t.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalid, t.Priority)
	}
	if t.EstimatedTime != nil && *t.EstimatedTime < 0 {
		return fmt.Errorf("%w: estimated time must be non-negative", ErrInvalid)
	}
	return nil
}

// statusWeights drives the linear progress bar shown per task.
var statusWeights = map[Status]int{
	StatusTodo:       0,
	StatusInProgress: 33,
	StatusReview:     66,
	StatusCompleted:  100,
}

// Progress returns the display progress percentage for a task.
// Unknown or missing statuses count as not started.
func Progress(t Task) int {
	return statusWeights[t.Status]
}
