package task

import (
	"fmt"
	"time"
)

// Patch is a partial update: only non-nil fields are applied, everything
// else keeps its stored value. Comments are excluded; they are
// append-only through their own operation.
type Patch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Priority      *Priority  `json:"priority,omitempty"`
	Category      *string    `json:"category,omitempty"`
	AssignedTo    *string    `json:"assignedTo,omitempty"`
	EstimatedTime *float64   `json:"estimatedTime,omitempty"`
	Status        *Status    `json:"status,omitempty"`
}

// Validate checks the supplied fields against the same invariants
// Task.Validate enforces at creation.
func (p *Patch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	}
	if p.Status != nil && !ValidStatus(*p.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, *p.Status)
	}
	if p.Priority != nil && !ValidPriority(*p.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalid, *p.Priority)
	}
	if p.EstimatedTime != nil && *p.EstimatedTime < 0 {
		return fmt.Errorf("%w: estimated time must be non-negative", ErrInvalid)
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Category == nil && p.AssignedTo == nil &&
		p.EstimatedTime == nil && p.Status == nil
}
