package schedule

import "time"

// Interval is a half-open [start, end) block of time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Minutes returns the interval length in whole minutes.
func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start).Minutes())
}

// ConflictIndex tracks already-booked intervals and finds the next start at
// which a candidate duration fits without overlap. Intervals are never
// removed within a scheduling run. Lookups are linear scans; event counts
// per project are small enough that an interval tree buys nothing.
type ConflictIndex struct {
	cal       *WorkingCalendar
	intervals []Interval
}

// NewConflictIndex builds an empty index bound to a calendar.
func NewConflictIndex(cal *WorkingCalendar) *ConflictIndex {
	return &ConflictIndex{cal: cal}
}

// Add records a booked interval.
func (x *ConflictIndex) Add(iv Interval) {
	x.intervals = append(x.intervals, iv)
}

// Len returns the number of tracked intervals.
func (x *ConflictIndex) Len() int {
	return len(x.intervals)
}

// NextAvailableStart advances the candidate start past every overlapping
// interval until a full scan finds none. Moving the candidate can introduce
// overlaps with intervals already passed, so the scan restarts after every
// advance rather than trusting a single forward pass.
func (x *ConflictIndex) NextAvailableStart(candidate time.Time, durationMinutes int) time.Time {
	if durationMinutes <= 0 {
		return candidate
	}
	for {
		window := Interval{Start: candidate, End: candidate.Add(time.Duration(durationMinutes) * time.Minute)}
		moved := false
		for _, iv := range x.intervals {
			if iv.Overlaps(window) {
				candidate = x.cal.ClampToWorkingHours(iv.End)
				moved = true
				break
			}
		}
		if !moved {
			return candidate
		}
	}
}
