package layout

import (
	"cmp"
	"slices"
	"time"
)

// Lane geometry in pixels.
const (
	LaneTopOffset = 8  // Space above the first lane
	BlockHeight   = 60 // Height of a timeline block
	LaneSpacing   = 8  // Gap between lanes
)

// LaneTop returns the top pixel row of lane.
func LaneTop(lane int) float64 {
	return LaneTopOffset + float64(lane)*(BlockHeight+LaneSpacing)
}

// SortSegments returns a copy of segs in packing order: single-day segments
// before multi-day ones, then shorter clipped duration, then earlier start.
// Remaining ties keep their input order.
func SortSegments(segs []Segment) []Segment {
	sorted := slices.Clone(segs)
	slices.SortStableFunc(sorted, func(a, b Segment) int {
		if am, bm := a.IsMultiDay(), b.IsMultiDay(); am != bm {
			if am {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.DurationMinutes(), b.DurationMinutes()); c != 0 {
			return c
		}
		return a.ClippedStart.Compare(b.ClippedStart)
	})
	return sorted
}

// lane tracks the union of everything placed in it. Bounds only grow.
type lane struct {
	start    time.Time
	end      time.Time
	firstDay int
	lastDay  int
}

func newLane(s Segment) *lane {
	return &lane{
		start:    s.ClippedStart,
		end:      s.ClippedEnd,
		firstDay: s.DayIndex,
		lastDay:  s.EndDayIndex,
	}
}

// accepts rejects s only when both its time range and its day range
// intersect the lane's bounds.
func (l *lane) accepts(s Segment) bool {
	timeOverlap := s.ClippedStart.Before(l.end) && l.start.Before(s.ClippedEnd)
	dayOverlap := s.DayIndex <= l.lastDay && l.firstDay <= s.EndDayIndex
	return !(timeOverlap && dayOverlap)
}

func (l *lane) add(s Segment) {
	if s.ClippedStart.Before(l.start) {
		l.start = s.ClippedStart
	}
	if s.ClippedEnd.After(l.end) {
		l.end = s.ClippedEnd
	}
	l.firstDay = min(l.firstDay, s.DayIndex)
	l.lastDay = max(l.lastDay, s.EndDayIndex)
}

// AssignLanes packs sorted segments greedily into the first lane that
// accepts them, opening a new lane when none does. It returns the lane index
// of each segment and the number of lanes used.
func AssignLanes(sorted []Segment) ([]int, int) {
	assigned := make([]int, len(sorted))
	var lanes []*lane

	for i, seg := range sorted {
		placed := false
		for idx, l := range lanes {
			if l.accepts(seg) {
				l.add(seg)
				assigned[i] = idx
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, newLane(seg))
			assigned[i] = len(lanes) - 1
		}
	}

	return assigned, len(lanes)
}
