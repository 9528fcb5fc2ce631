package deadline

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Filter
// ─────────────────────────────────────────────────────────────────────────────

// FilterSpec holds optional equality constraints.  An empty field imposes no
// constraint; a zero FilterSpec keeps every deadline.
type FilterSpec struct {
	ClientID string   `json:"client_id,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Status   Status   `json:"status,omitempty"`
}

// Validate rejects set fields carrying unknown enum values.
func (f FilterSpec) Validate() error {
	if f.Priority != "" && !f.Priority.IsValid() {
		return errors.New(errors.ErrCodeDeadlineInvalidPriority, "invalid priority filter").WithDetail(string(f.Priority))
	}
	if f.Status != "" && !f.Status.IsValid() {
		return errors.New(errors.ErrCodeDeadlineInvalidStatus, "invalid status filter").WithDetail(string(f.Status))
	}
	return nil
}

// IsZero reports whether no field is set.
func (f FilterSpec) IsZero() bool {
	return f == FilterSpec{}
}

// Match reports whether d satisfies every set field.
func (f FilterSpec) Match(d *Deadline) bool {
	if f.ClientID != "" && d.ClientID != f.ClientID {
		return false
	}
	if f.Priority != "" && d.Priority != f.Priority {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Sort
// ─────────────────────────────────────────────────────────────────────────────

// SortField names a sort key.
type SortField string

const (
	SortByDueDate  SortField = "dueDate"
	SortByPriority SortField = "priority"
	SortByTitle    SortField = "title"
)

// ParseSortField accepts the canonical names plus the snake_case form used in
// query strings.  An empty string yields the empty field (input order).
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "duedate", "due_date", "due":
		return SortByDueDate, nil
	case "priority":
		return SortByPriority, nil
	case "title":
		return SortByTitle, nil
	}
	return "", errors.New(errors.ErrCodeDeadlineInvalidSort, "invalid sort field").WithDetail(s)
}

// SortSpec selects one sort key and direction.  Locale drives title
// collation; the zero tag is the root collation.  An empty Field keeps input
// order.
type SortSpec struct {
	Field     SortField    `json:"field,omitempty"`
	Ascending bool         `json:"ascending"`
	Locale    language.Tag `json:"-"`
}

// Validate rejects unknown sort fields.
func (s SortSpec) Validate() error {
	switch s.Field {
	case "", SortByDueDate, SortByPriority, SortByTitle:
		return nil
	}
	return errors.New(errors.ErrCodeDeadlineInvalidSort, "invalid sort field").WithDetail(string(s.Field))
}

// compare returns the three-way comparison for the spec's field in ascending
// order.
func (s SortSpec) compare() func(a, b *Deadline) int {
	switch s.Field {
	case SortByDueDate:
		return func(a, b *Deadline) int { return a.DueDate.Compare(b.DueDate) }
	case SortByPriority:
		return func(a, b *Deadline) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortByTitle:
		// Collators keep scratch buffers and are not safe to share.
		c := collate.New(s.Locale)
		return func(a, b *Deadline) int { return c.CompareString(a.Title, b.Title) }
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline
// ─────────────────────────────────────────────────────────────────────────────

// Apply filters then stably sorts deadlines.  The input is never modified and
// the result is always a fresh, non-nil slice.  Equal keys keep their input
// order in both directions.  Callers validate specs first; an unknown sort
// field is treated as "no sort".
func Apply(deadlines []Deadline, filter FilterSpec, spec SortSpec) []Deadline {
	out := make([]Deadline, 0, len(deadlines))
	for i := range deadlines {
		if filter.Match(&deadlines[i]) {
			out = append(out, deadlines[i])
		}
	}

	cmp := spec.compare()
	if cmp == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Ascending {
			return cmp(&out[i], &out[j]) < 0
		}
		return cmp(&out[j], &out[i]) < 0
	})
	return out
}

//Personal.AI order the ending
