package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
)

func locatedSegments(t *testing.T, tasks ...*domain.Task) []Segment {
	t.Helper()
	w := WeekWindow(weekStart)
	var segs []Segment
	for _, task := range tasks {
		for _, seg := range SegmentTask(task, w) {
			located, ok := LocateSegment(seg, w)
			require.True(t, ok)
			segs = append(segs, located)
		}
	}
	return segs
}

func segmentIDs(segs []Segment) []string {
	ids := make([]string, len(segs))
	for i, s := range segs {
		ids[i] = s.SegmentID
	}
	return ids
}

func TestLaneTop(t *testing.T) {
	assert.Equal(t, 8.0, LaneTop(0))
	assert.Equal(t, 76.0, LaneTop(1))
	assert.Equal(t, 144.0, LaneTop(2))
}

func TestSortSegments(t *testing.T) {
	segs := locatedSegments(t,
		newTask("overnight", at(12, 23, 0), at(13, 1, 0)),
		newTask("long", at(12, 8, 0), at(12, 11, 0)),
		newTask("late-short", at(12, 15, 0), at(12, 16, 0)),
		newTask("early-short", at(12, 9, 0), at(12, 10, 0)),
		newTask("tiny", at(14, 9, 0), at(14, 9, 30)),
	)

	sorted := SortSegments(segs)

	assert.Equal(t, []string{"tiny", "early-short", "late-short", "long", "overnight"}, segmentIDs(sorted))
	assert.Equal(t, "overnight", segs[0].SegmentID, "input is not reordered")
}

func TestSortSegments_Stable(t *testing.T) {
	segs := locatedSegments(t,
		newTask("first", at(12, 9, 0), at(12, 10, 0)),
		newTask("second", at(12, 9, 0), at(12, 10, 0)),
		newTask("third", at(12, 9, 0), at(12, 10, 0)),
	)

	want := []string{"first", "second", "third"}
	for range 5 {
		assert.Equal(t, want, segmentIDs(SortSegments(segs)))
	}
}

func TestAssignLanes_OverlappingMorning(t *testing.T) {
	segs := locatedSegments(t,
		newTask("a", at(12, 9, 0), at(12, 10, 0)),
		newTask("b", at(12, 9, 30), at(12, 10, 30)),
		newTask("c", at(12, 10, 15), at(12, 11, 0)),
	)

	sorted := SortSegments(segs)
	lanes, count := AssignLanes(sorted)

	require.Equal(t, 2, count)
	byID := map[string]int{}
	for i, seg := range sorted {
		byID[seg.SegmentID] = lanes[i]
	}
	assert.Equal(t, byID["a"], byID["c"], "a and c share a lane")
	assert.NotEqual(t, byID["a"], byID["b"])
}

func TestAssignLanes_SameHoursOnDifferentDays(t *testing.T) {
	segs := locatedSegments(t,
		newTask("mon", at(12, 9, 0), at(12, 10, 0)),
		newTask("tue", at(13, 9, 0), at(13, 10, 0)),
		newTask("wed", at(14, 9, 0), at(14, 10, 0)),
	)

	lanes, count := AssignLanes(SortSegments(segs))

	assert.Equal(t, 1, count)
	assert.Equal(t, []int{0, 0, 0}, lanes)
}

func TestAssignLanes_BoundsOnlyGrow(t *testing.T) {
	// Once "evening" joins lane 0 the lane covers 09:00 to 17:00, so "gap"
	// lands on lane 1 although it overlaps neither of them.
	segs := []Segment{
		locatedSegments(t, newTask("morning", at(12, 9, 0), at(12, 10, 0)))[0],
		locatedSegments(t, newTask("evening", at(12, 16, 0), at(12, 17, 0)))[0],
		locatedSegments(t, newTask("gap", at(12, 12, 0), at(12, 13, 0)))[0],
	}

	lanes, count := AssignLanes(segs)

	assert.Equal(t, []int{0, 0, 1}, lanes)
	assert.Equal(t, 2, count)
}

func TestAssignLanes_Empty(t *testing.T) {
	lanes, count := AssignLanes(nil)
	assert.Empty(t, lanes)
	assert.Zero(t, count)
}

func TestAssignLanes_NoOverlapWithinLane(t *testing.T) {
	segs := locatedSegments(t,
		newTask("a", at(11, 8, 0), at(11, 12, 0)),
		newTask("b", at(11, 11, 0), at(12, 2, 0)),
		newTask("c", at(12, 1, 0), at(12, 3, 0)),
		newTask("d", at(13, 9, 0), at(15, 9, 0)),
		newTask("e", at(14, 10, 0), at(14, 11, 0)),
		newTask("f", at(14, 10, 30), at(14, 12, 0)),
		newTask("g", at(16, 22, 0), at(19, 2, 0)),
		newTask("h", at(17, 6, 0), at(17, 7, 0)),
	)

	sorted := SortSegments(segs)
	lanes, _ := AssignLanes(sorted)

	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if lanes[i] != lanes[j] {
				continue
			}
			a, b := sorted[i], sorted[j]
			timeOverlap := a.ClippedStart.Before(b.ClippedEnd) && b.ClippedStart.Before(a.ClippedEnd)
			dayOverlap := a.DayIndex <= b.EndDayIndex && b.DayIndex <= a.EndDayIndex
			assert.False(t, timeOverlap && dayOverlap, "%s and %s overlap in lane %d", a.SegmentID, b.SegmentID, lanes[i])
		}
	}
}
