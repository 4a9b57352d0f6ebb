// Package schedule implements the calendar placement engine behind the
// agenda import: working-hours arithmetic, conflict scanning, and the
// splitting of durations into day-bounded segments.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/traineo/agenda-api/internal/models"
	appErrors "github.com/traineo/agenda-api/pkg/errors"
)

const minutesPerDay = 24 * 60

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WorkingCalendar classifies instants as working or non-working and computes
// calendar-aware advances for a single working-hours configuration.
type WorkingCalendar struct {
	startOfDay int
	endOfDay   int
	days       map[time.Weekday]bool
	loc        *time.Location
}

// NewWorkingCalendar validates the configuration up front; an empty working
// day set would otherwise loop forever during advances.
func NewWorkingCalendar(wh models.WorkingHours) (*WorkingCalendar, error) {
	if wh.StartOfDay < 0 || wh.EndOfDay > minutesPerDay || wh.StartOfDay >= wh.EndOfDay {
		return nil, appErrors.Clone(appErrors.ErrConfiguration,
			fmt.Sprintf("start of day (%d) must precede end of day (%d) within a single day", wh.StartOfDay, wh.EndOfDay))
	}

	days := make(map[time.Weekday]bool, len(wh.WorkingDays))
	for _, name := range wh.WorkingDays {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("unknown working day %q", name))
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "working days must not be empty")
	}

	zone := wh.Timezone
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Code, appErrors.ErrConfiguration.Status,
			fmt.Sprintf("invalid timezone %q", zone))
	}

	return &WorkingCalendar{
		startOfDay: wh.StartOfDay,
		endOfDay:   wh.EndOfDay,
		days:       days,
		loc:        loc,
	}, nil
}

// Location returns the calendar's timezone.
func (c *WorkingCalendar) Location() *time.Location {
	return c.loc
}

// IsWorkingDay reports whether the instant's weekday is a working day.
func (c *WorkingCalendar) IsWorkingDay(t time.Time) bool {
	return c.days[t.In(c.loc).Weekday()]
}

// NextWorkingDay advances at least one calendar day, then keeps advancing
// until a working day is reached. The time of day is preserved.
func (c *WorkingCalendar) NextWorkingDay(t time.Time) time.Time {
	t = t.In(c.loc).AddDate(0, 0, 1)
	for !c.days[t.Weekday()] {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// ClampToWorkingHours snaps an instant forward to the nearest working
// instant: before start of day snaps to start of day, at or past end of day
// moves to the next working day's start. The result is re-validated until it
// lands on a working day, so clamping across a weekend cannot return a
// non-working instant.
func (c *WorkingCalendar) ClampToWorkingHours(t time.Time) time.Time {
	t = t.In(c.loc)
	for {
		if !c.days[t.Weekday()] {
			t = c.NextWorkingDay(t)
			continue
		}
		minute := t.Hour()*60 + t.Minute()
		if minute < c.startOfDay {
			return c.at(t, c.startOfDay)
		}
		if minute >= c.endOfDay {
			t = c.at(c.NextWorkingDay(t), c.startOfDay)
			continue
		}
		return t
	}
}

// MinutesRemaining returns the working minutes left before end of day,
// floored at zero.
func (c *WorkingCalendar) MinutesRemaining(t time.Time) int {
	t = t.In(c.loc)
	remaining := c.endOfDay - (t.Hour()*60 + t.Minute())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StartOfNextWorkingDay returns the next working day at start of day.
func (c *WorkingCalendar) StartOfNextWorkingDay(t time.Time) time.Time {
	return c.at(c.NextWorkingDay(t), c.startOfDay)
}

// At pins an instant's date to a given minute-of-day in the calendar zone.
func (c *WorkingCalendar) At(t time.Time, minuteOfDay int) time.Time {
	return c.at(t.In(c.loc), minuteOfDay)
}

func (c *WorkingCalendar) at(t time.Time, minuteOfDay int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, c.loc)
}
