package deadline

import (
	"sort"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Time-window classification
// ─────────────────────────────────────────────────────────────────────────────

// Buckets is the time-window view of a deadline collection at one instant.
// Overdue and Upcoming partition the open deadlines; ThisWeek is computed
// independently and overlaps both.  Slices are never nil.
type Buckets struct {
	Today    common.Date `json:"today"`
	Overdue  []Deadline  `json:"overdue"`
	Upcoming []Deadline  `json:"upcoming"`
	ThisWeek []Deadline  `json:"this_week"`
}

// Membership is the bucket membership of a single deadline.
type Membership struct {
	Overdue  bool
	Upcoming bool
	ThisWeek bool
}

// WeekBounds returns the Monday and Sunday of the ISO week containing today.
func WeekBounds(today common.Date) (start, end common.Date) {
	start = today.WeekStart()
	return start, start.AddDays(6)
}

// MembershipOf classifies d against today.  Completed deadlines belong to no
// bucket; every open deadline is exactly one of overdue or upcoming.
func MembershipOf(d *Deadline, today common.Date) Membership {
	if d.IsComplete() {
		return Membership{}
	}
	start, end := WeekBounds(today)
	overdue := d.DueDate.Before(today)
	return Membership{
		Overdue:  overdue,
		Upcoming: !overdue,
		ThisWeek: !d.DueDate.Before(start) && !d.DueDate.After(end),
	}
}

// Classify buckets deadlines against the calendar date of now, taken in now's
// own location.  The caller captures now once per pass so all three buckets
// share one boundary.  Overdue and Upcoming are ordered by due date
// (stable on ties); ThisWeek keeps input order.
func Classify(deadlines []Deadline, now time.Time) Buckets {
	today := common.DateOf(now)
	b := Buckets{
		Today:    today,
		Overdue:  make([]Deadline, 0),
		Upcoming: make([]Deadline, 0),
		ThisWeek: make([]Deadline, 0),
	}
	for i := range deadlines {
		m := MembershipOf(&deadlines[i], today)
		if m.Overdue {
			b.Overdue = append(b.Overdue, deadlines[i])
		}
		if m.Upcoming {
			b.Upcoming = append(b.Upcoming, deadlines[i])
		}
		if m.ThisWeek {
			b.ThisWeek = append(b.ThisWeek, deadlines[i])
		}
	}
	byDue := func(s []Deadline) func(i, j int) bool {
		return func(i, j int) bool { return s[i].DueDate.Before(s[j].DueDate) }
	}
	sort.SliceStable(b.Overdue, byDue(b.Overdue))
	sort.SliceStable(b.Upcoming, byDue(b.Upcoming))
	return b
}

// Counts summarises bucket sizes.
type Counts struct {
	Overdue  int `json:"overdue"`
	Upcoming int `json:"upcoming"`
	ThisWeek int `json:"this_week"`
}

// Counts returns the size of each bucket.
func (b Buckets) Counts() Counts {
	return Counts{Overdue: len(b.Overdue), Upcoming: len(b.Upcoming), ThisWeek: len(b.ThisWeek)}
}

//Personal.AI order the ending
