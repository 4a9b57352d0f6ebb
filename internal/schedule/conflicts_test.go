package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalOverlapsIsHalfOpen(t *testing.T) {
	a := Interval{Start: march(10, 9, 0), End: march(10, 10, 0)}
	b := Interval{Start: march(10, 10, 0), End: march(10, 11, 0)}
	c := Interval{Start: march(10, 9, 30), End: march(10, 10, 30)}

	assert.False(t, a.Overlaps(b), "touching intervals must not overlap")
	assert.False(t, b.Overlaps(a))
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}

func TestNextAvailableStartSkipsBookedBlocks(t *testing.T) {
	cal := mustCalendar(t)
	index := NewConflictIndex(cal)
	index.Add(Interval{Start: march(10, 9, 0), End: march(10, 11, 0)})

	got := index.NextAvailableStart(march(10, 9, 0), 60)
	assert.Equal(t, march(10, 11, 0), got)
}

func TestNextAvailableStartRescansAfterEveryAdvance(t *testing.T) {
	cal := mustCalendar(t)
	index := NewConflictIndex(cal)

	// The later block is registered first. Advancing past the earlier block
	// lands the candidate inside the first-registered one, which only a
	// restarted scan catches.
	index.Add(Interval{Start: march(10, 13, 0), End: march(10, 14, 0)})
	index.Add(Interval{Start: march(10, 9, 0), End: march(10, 13, 0)})

	got := index.NextAvailableStart(march(10, 9, 0), 60)
	assert.Equal(t, march(10, 14, 0), got)
}

func TestNextAvailableStartClampsAcrossDayBoundaries(t *testing.T) {
	cal := mustCalendar(t)
	index := NewConflictIndex(cal)

	// Friday's last hour is booked; the candidate must reappear on Monday.
	index.Add(Interval{Start: march(14, 16, 0), End: march(14, 17, 0)})

	got := index.NextAvailableStart(march(14, 16, 30), 60)
	assert.Equal(t, march(17, 9, 0), got)
}

func TestNextAvailableStartIgnoresZeroDuration(t *testing.T) {
	cal := mustCalendar(t)
	index := NewConflictIndex(cal)
	index.Add(Interval{Start: march(10, 9, 0), End: march(10, 17, 0)})

	candidate := march(10, 10, 0)
	assert.Equal(t, candidate, index.NextAvailableStart(candidate, 0))
}

func TestIntervalMinutes(t *testing.T) {
	iv := Interval{Start: march(10, 9, 0), End: march(10, 10, 30)}
	assert.Equal(t, 90, iv.Minutes())
	assert.Equal(t, 0, Interval{Start: march(10, 9, 0), End: march(10, 9, 0)}.Minutes())
}
