package layout

import (
	"fmt"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
)

// Block is a segment placed on the weekly timeline.
// Fields are ordered to minimize memory padding.
type Block struct {
	Segment
	Left         float64 // Offset inside the start day column
	X            float64 // Offset on the full week ruler
	Width        float64
	Top          float64
	Height       float64
	Lane         int
	SpannedDays  int // Number of day columns the block touches
	SubtaskCount int // Descendants of the original task
}

// Key returns the render key of the block.
func (b Block) Key() string {
	return b.SegmentID
}

// MapBlock converts a located segment into timeline pixels.
func MapBlock(seg Segment, lane int, res Resolution) Block {
	startOffset := res.Offset(seg.ClippedStart)
	endOffset := res.Offset(seg.ClippedEnd)

	var width float64
	if seg.IsMultiDay() {
		days := seg.EndDayIndex - seg.DayIndex
		width = (res.DayWidth - startOffset) + float64(days-1)*res.DayWidth + endOffset
	} else {
		width = endOffset - startOffset
	}
	width = max(width, res.MinBlockWidth)

	return Block{
		Segment:     seg,
		Left:        startOffset,
		X:           float64(seg.DayIndex)*res.DayWidth + startOffset,
		Width:       width,
		Top:         LaneTop(lane),
		Height:      BlockHeight,
		Lane:        lane,
		SpannedDays: seg.EndDayIndex - seg.DayIndex + 1,
	}
}

// DroppedSegment is a segment that could not be placed on the timeline.
type DroppedSegment struct {
	Reason  string
	Segment Segment
}

// Timeline is the weekly lane layout of a task snapshot.
// Fields are ordered to minimize memory padding.
type Timeline struct {
	Window     Window
	Blocks     []Block          // In packing order
	Dropped    []DroppedSegment // Segments whose day could not be located
	Resolution Resolution
	LaneCount  int
}

// Width returns the width of the whole week ruler.
func (t Timeline) Width() float64 {
	return t.Resolution.WeekWidth()
}

// Height returns the height needed to draw every lane.
func (t Timeline) Height() float64 {
	return LaneTop(t.LaneCount)
}

// BlocksForTask returns every block that belongs to the task with id.
func (t Timeline) BlocksForTask(id string) []Block {
	var out []Block
	for _, b := range t.Blocks {
		if b.TaskID() == id {
			out = append(out, b)
		}
	}
	return out
}

// LayoutTimeline lays out the scheduled top-level tasks of tasks on the
// seven-day window starting at weekStart.
func LayoutTimeline(tasks []*domain.Task, weekStart time.Time, zoom ZoomMode) Timeline {
	w := WeekWindow(weekStart)
	res := ResolutionFor(zoom)

	var located []Segment
	var dropped []DroppedSegment
	for _, task := range domain.ScheduledRoots(tasks) {
		for _, seg := range SegmentTask(task, w) {
			placed, ok := LocateSegment(seg, w)
			if !ok {
				dropped = append(dropped, DroppedSegment{
					Segment: placed,
					Reason: fmt.Sprintf("segment %s [%s, %s] is outside window %s..%s",
						placed.SegmentID,
						placed.ClippedStart.Format(time.RFC3339), placed.ClippedEnd.Format(time.RFC3339),
						w.Start.Format(domain.DateLayout), w.End.Format(domain.DateLayout)),
				})
				continue
			}
			located = append(located, placed)
		}
	}

	sorted := SortSegments(located)
	lanes, count := AssignLanes(sorted)

	blocks := make([]Block, 0, len(sorted))
	for i, seg := range sorted {
		block := MapBlock(seg, lanes[i], res)
		block.SubtaskCount = domain.TotalSubtaskCount(seg.Task)
		blocks = append(blocks, block)
	}

	return Timeline{
		Window:     w,
		Resolution: res,
		Blocks:     blocks,
		Dropped:    dropped,
		LaneCount:  count,
	}
}
