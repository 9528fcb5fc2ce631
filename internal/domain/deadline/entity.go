// Package deadline defines the Deadline value type together with the
// time-window classifier and the filter/sort pipeline that the dashboard,
// the API and the assistant context are built from.
//
// Everything here is pure: functions take "now" as an argument, never read a
// wall clock and never mutate their inputs.
package deadline

import (
	"strings"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Priority
// ─────────────────────────────────────────────────────────────────────────────

// Priority ranks a deadline.  The order is fixed: high, medium, low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns 0 for high, 1 for medium and 2 for low.  Unknown values rank
// with medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// IsValid reports whether p is one of the three known priorities.
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ParsePriority validates a wire value.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", errors.New(errors.ErrCodeDeadlineInvalidPriority, "invalid deadline priority").WithDetail(s)
	}
	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// Status is the work state of a deadline.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusComplete
}

// Next advances the status cycle todo → in_progress → complete → todo.
// Unknown values restart the cycle at todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusComplete
	default:
		return StatusTodo
	}
}

// Label is the display text of the status.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusComplete:
		return "Complete"
	case StatusTodo:
		return "To Do"
	default:
		return string(s)
	}
}

// ParseStatus validates a wire value.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", errors.New(errors.ErrCodeDeadlineInvalidStatus, "invalid deadline status").WithDetail(s)
	}
	return st, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Deadline
// ─────────────────────────────────────────────────────────────────────────────

// DefaultTitle is given to deadlines created without a title.
const DefaultTitle = "New Deadline"

// Deadline is a dated deliverable owed to a client.  ClientID is a weak
// reference and may name a client that no longer exists.
type Deadline struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ClientID    string      `json:"client_id"`
	DueDate     common.Date `json:"due_date"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewDeadline creates a deadline with the defaults of a blank form: title
// DefaultTitle, medium priority, todo, due on today.
func NewDeadline(clientID string, today common.Date, now time.Time) *Deadline {
	return &Deadline{
		ID:        common.NewID().String(),
		Title:     DefaultTitle,
		ClientID:  clientID,
		DueDate:   today,
		Priority:  PriorityMedium,
		Status:    StatusTodo,
		CreatedAt: now,
	}
}

// IsComplete reports whether the deadline is done.
func (d *Deadline) IsComplete() bool {
	return d.Status == StatusComplete
}

// Validate checks the invariants a stored deadline must hold.
func (d *Deadline) Validate() error {
	if d.ID == "" {
		return errors.New(errors.ErrCodeDeadlineInvalid, "deadline id is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		return errors.New(errors.ErrCodeDeadlineInvalid, "deadline title is required")
	}
	if d.DueDate.IsZero() {
		return errors.New(errors.ErrCodeDeadlineInvalidDate, "due date is required")
	}
	if !d.Priority.IsValid() {
		return errors.New(errors.ErrCodeDeadlineInvalidPriority, "invalid deadline priority").WithDetail(string(d.Priority))
	}
	if !d.Status.IsValid() {
		return errors.New(errors.ErrCodeDeadlineInvalidStatus, "invalid deadline status").WithDetail(string(d.Status))
	}
	return nil
}

//Personal.AI order the ending
