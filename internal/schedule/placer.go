package schedule

import "time"

// Placer turns a (start, duration) request into one or more working-hour
// segments. Segments never cross end of day; a duration that does not fit
// the current day spills onto the next working day's start.
type Placer struct {
	cal       *WorkingCalendar
	conflicts *ConflictIndex
}

// NewPlacer builds a placer. A nil conflict index disables conflict
// avoidance: placement is pure back-to-back.
func NewPlacer(cal *WorkingCalendar, conflicts *ConflictIndex) *Placer {
	return &Placer{cal: cal, conflicts: conflicts}
}

// Place emits ordered segments whose lengths sum to durationMinutes. A
// cursor sitting exactly at end of day yields zero available minutes and is
// force-advanced to the next working day, so the loop always makes progress.
func (p *Placer) Place(start time.Time, durationMinutes int) []Interval {
	if durationMinutes <= 0 {
		return nil
	}

	var segments []Interval
	remaining := durationMinutes
	cursor := start

	for remaining > 0 {
		if !p.cal.IsWorkingDay(cursor) {
			cursor = p.cal.NextWorkingDay(cursor)
		}
		cursor = p.cal.ClampToWorkingHours(cursor)
		if p.conflicts != nil {
			cursor = p.conflicts.NextAvailableStart(cursor, remaining)
		}

		available := p.cal.MinutesRemaining(cursor)
		if available <= 0 {
			cursor = p.cal.StartOfNextWorkingDay(cursor)
			continue
		}

		segmentMinutes := remaining
		if available < segmentMinutes {
			segmentMinutes = available
		}
		segments = append(segments, Interval{
			Start: cursor,
			End:   cursor.Add(time.Duration(segmentMinutes) * time.Minute),
		})
		remaining -= segmentMinutes

		if remaining > 0 {
			cursor = p.cal.StartOfNextWorkingDay(cursor)
		}
	}

	return segments
}
