package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceFitsWithinOneDay(t *testing.T) {
	placer := NewPlacer(mustCalendar(t), nil)

	segments := placer.Place(march(10, 10, 0), 90)
	require.Len(t, segments, 1)
	assert.Equal(t, march(10, 10, 0), segments[0].Start)
	assert.Equal(t, march(10, 11, 30), segments[0].End)
}

func TestPlaceSplitsAcrossDays(t *testing.T) {
	placer := NewPlacer(mustCalendar(t), nil)

	// 600 minutes starting Monday 15:00: 120 fit before end of day, the
	// remaining 480 fill Tuesday exactly.
	segments := placer.Place(march(10, 15, 0), 600)
	require.Len(t, segments, 2)
	assert.Equal(t, march(10, 15, 0), segments[0].Start)
	assert.Equal(t, march(10, 17, 0), segments[0].End)
	assert.Equal(t, march(11, 9, 0), segments[1].Start)
	assert.Equal(t, march(11, 17, 0), segments[1].End)
}

func TestPlaceSpillsOverWeekend(t *testing.T) {
	placer := NewPlacer(mustCalendar(t), nil)

	segments := placer.Place(march(14, 16, 0), 120)
	require.Len(t, segments, 2)
	assert.Equal(t, march(14, 16, 0), segments[0].Start)
	assert.Equal(t, march(14, 17, 0), segments[0].End)
	assert.Equal(t, march(17, 9, 0), segments[1].Start)
	assert.Equal(t, march(17, 10, 0), segments[1].End)
}

func TestPlaceAdvancesWhenCursorSitsAtEndOfDay(t *testing.T) {
	placer := NewPlacer(mustCalendar(t), nil)

	segments := placer.Place(march(10, 17, 0), 60)
	require.Len(t, segments, 1)
	assert.Equal(t, march(11, 9, 0), segments[0].Start)
	assert.Equal(t, march(11, 10, 0), segments[0].End)
}

func TestPlaceReturnsNothingForZeroDuration(t *testing.T) {
	placer := NewPlacer(mustCalendar(t), nil)

	assert.Nil(t, placer.Place(march(10, 9, 0), 0))
	assert.Nil(t, placer.Place(march(10, 9, 0), -30))
}

func TestPlaceAvoidsBookedIntervals(t *testing.T) {
	cal := mustCalendar(t)
	index := NewConflictIndex(cal)
	index.Add(Interval{Start: march(10, 9, 0), End: march(10, 17, 0)})
	placer := NewPlacer(cal, index)

	segments := placer.Place(march(10, 9, 0), 60)
	require.Len(t, segments, 1)
	assert.Equal(t, march(11, 9, 0), segments[0].Start)
	assert.Equal(t, march(11, 10, 0), segments[0].End)
}

func TestPlaceSegmentsSumToDuration(t *testing.T) {
	placer := NewPlacer(mustCalendar(t), nil)

	cal := mustCalendar(t)
	for _, duration := range []int{45, 480, 1000, 2410} {
		segments := placer.Place(march(10, 13, 0), duration)
		total := 0
		for i, seg := range segments {
			total += seg.Minutes()
			if i > 0 {
				assert.True(t, seg.Start.After(segments[i-1].End) || seg.Start.Equal(segments[i-1].End),
					"segments must be ordered and non-overlapping")
			}
			assert.True(t, cal.IsWorkingDay(seg.Start), "segment starts on a working day")
			assert.True(t, seg.Start.Hour() >= 9, "segment starts within working hours")
			assert.True(t, seg.End.Hour() <= 17, "segment ends within working hours")
			assert.Equal(t, seg.Start.Day(), seg.End.Add(-time.Minute).Day(), "segments never cross a day boundary")
		}
		assert.Equal(t, duration, total)
	}
}
