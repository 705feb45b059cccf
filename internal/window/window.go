// Package window implements spec.md §4.5: splitting the input rows into a
// current 30-day window and the prior 30-day window relative to an as_of
// reference date, at day granularity, in the input's own time zone (no
// time-of-day semantics — spec.md §9's "Windowing with sparse dates" note).
package window

import (
	"time"

	"github.com/yourorg/md-spec-tool/internal/normalize"
)

// Range is an inclusive, day-granularity date interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within r, inclusive, comparing calendar
// days only.
func (r Range) Contains(t time.Time) bool {
	d := truncateToDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Bounds computes the current and prior windows for a given as_of date and
// window size, per spec.md §3 invariant 6:
// current = [as_of - (windowDays-1), as_of], prior = [as_of - (2*windowDays-1), as_of - windowDays].
func Bounds(asOf time.Time, windowDays int) (current, prior Range) {
	asOf = truncateToDay(asOf)
	current = Range{
		Start: asOf.AddDate(0, 0, -(windowDays - 1)),
		End:   asOf,
	}
	prior = Range{
		Start: asOf.AddDate(0, 0, -(2*windowDays - 1)),
		End:   asOf.AddDate(0, 0, -windowDays),
	}
	return current, prior
}

// MaxDate returns the latest parseable date among rows, used as the default
// as_of when the caller doesn't override it (spec.md §4.5).
func MaxDate(rows []normalize.RowFeatures) (time.Time, bool) {
	var max time.Time
	found := false
	for _, rf := range rows {
		if !rf.DateOK {
			continue
		}
		if !found || rf.Date.After(max) {
			max = rf.Date
			found = true
		}
	}
	return max, found
}

// Split partitions row indices into the current and prior windows. Rows
// with an unparseable date are excluded from both (spec.md §4.5): they
// still receive article-level signals downstream, just never windowed
// aggregation membership.
func Split(rows []normalize.RowFeatures, asOf time.Time, windowDays int) (currentIdx, priorIdx []int) {
	current, prior := Bounds(asOf, windowDays)
	for i, rf := range rows {
		if !rf.DateOK {
			continue
		}
		if current.Contains(rf.Date) {
			currentIdx = append(currentIdx, i)
		} else if prior.Contains(rf.Date) {
			priorIdx = append(priorIdx, i)
		}
	}
	return currentIdx, priorIdx
}
