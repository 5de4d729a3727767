package layout

import (
	"fmt"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
)

// Segment is the visible portion of a task within one window.
// Fields are ordered to minimize memory padding.
type Segment struct {
	ClippedStart  time.Time
	ClippedEnd    time.Time
	OriginalStart time.Time
	OriginalEnd   time.Time
	Task          *domain.Task // Back-reference to the original task
	SegmentID     string       // Render key; equals the task ID unless the task spans several windows
	WeekNumber    int          // 1-based index of this window among those the task spans
	TotalWeeks    int          // Number of windows the task spans
	DayIndex      int          // Day of ClippedStart within the window (-1 until located)
	EndDayIndex   int          // Day of ClippedEnd within the window (-1 until located)

	IsBoundarySegment bool // Clipped range differs from the original range
	IsLastSegment     bool // Final piece of a task spanning several windows
}

// TaskID returns the ID of the original task.
func (s Segment) TaskID() string {
	if s.Task == nil {
		return ""
	}
	return s.Task.ID
}

// Duration returns the length of the clipped range.
func (s Segment) Duration() time.Duration {
	return s.ClippedEnd.Sub(s.ClippedStart)
}

// DurationMinutes returns the clipped length in whole minutes.
func (s Segment) DurationMinutes() int {
	return int(s.Duration() / time.Minute)
}

// IsMultiDay reports whether the located segment ends on a later day than it starts.
func (s Segment) IsMultiDay() bool {
	return s.EndDayIndex > s.DayIndex
}

// SegmentTask clips task against w.
//
// A task that does not intersect w yields no segments. A task that lies
// inside w on a single calendar date yields one segment equal to the task.
// Otherwise the range is clamped to w and tagged with its position among the
// windows the task spans. Windows are assumed to begin on the week's first
// day, so week boundaries are aligned to w.Start's weekday.
func SegmentTask(task *domain.Task, w Window) []Segment {
	if task == nil || !task.IsScheduled() {
		return nil
	}

	loc := w.Location()
	start := task.Start.In(loc)
	end := task.End.In(loc)

	if end.Before(w.Start) || start.After(w.End) {
		return nil
	}

	seg := Segment{
		Task:          task,
		SegmentID:     task.ID,
		OriginalStart: start,
		OriginalEnd:   end,
		ClippedStart:  start,
		ClippedEnd:    end,
		WeekNumber:    1,
		TotalWeeks:    1,
		DayIndex:      -1,
		EndDayIndex:   -1,
	}

	startsBefore := start.Before(w.Start)
	endsAfter := end.After(w.End)
	if !startsBefore && !endsAfter && SameDate(start, end) {
		return []Segment{seg}
	}

	if startsBefore {
		seg.ClippedStart = w.Start
	}
	if endsAfter {
		seg.ClippedEnd = w.End
	}
	seg.IsBoundarySegment = startsBefore || endsAfter

	firstWeek := StartOfWeek(start, w.Start.Weekday())
	seg.TotalWeeks = daysBetween(firstWeek, end)/DaysPerWeek + 1
	seg.WeekNumber = daysBetween(firstWeek, w.Start)/DaysPerWeek + 1
	seg.IsLastSegment = seg.TotalWeeks > 1 && !endsAfter
	if seg.TotalWeeks > 1 {
		seg.SegmentID = fmt.Sprintf("%s_week_%d", task.ID, w.Start.UnixMilli())
	}

	return []Segment{seg}
}

// LocateSegment fills in the day indices of seg within w.
// It returns false when either clipped endpoint falls on a date outside w.
func LocateSegment(seg Segment, w Window) (Segment, bool) {
	seg.DayIndex = w.DayIndex(seg.ClippedStart)
	seg.EndDayIndex = w.DayIndex(seg.ClippedEnd)
	if seg.DayIndex < 0 || seg.EndDayIndex < 0 {
		return seg, false
	}
	return seg, true
}
