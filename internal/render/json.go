package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
)

// TimelineDoc is the JSON form of a week timeline.
// Fields are ordered to minimize memory padding.
type TimelineDoc struct {
	WeekStart time.Time    `json:"weekStart"`
	WeekEnd   time.Time    `json:"weekEnd"`
	Zoom      string       `json:"zoom"`
	Blocks    []BlockDoc   `json:"blocks"`
	Dropped   []DroppedDoc `json:"dropped,omitempty"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	DayWidth  float64      `json:"dayWidth"`
	LaneCount int          `json:"laneCount"`
}

// BlockDoc is one positioned timeline block.
// Fields are ordered to minimize memory padding.
type BlockDoc struct {
	ClippedStart  time.Time `json:"clippedStart"`
	ClippedEnd    time.Time `json:"clippedEnd"`
	OriginalStart time.Time `json:"originalStart"`
	OriginalEnd   time.Time `json:"originalEnd"`
	TaskID        string    `json:"taskId"`
	Key           string    `json:"key"`
	Title         string    `json:"title"`
	Color         string    `json:"color"`
	Left          float64   `json:"left"`
	X             float64   `json:"x"`
	Width         float64   `json:"width"`
	Top           float64   `json:"top"`
	Height        float64   `json:"height"`
	Lane          int       `json:"lane"`
	DayIndex      int       `json:"dayIndex"`
	EndDayIndex   int       `json:"endDayIndex"`
	SpannedDays   int       `json:"spannedDays"`
	SubtaskCount  int       `json:"subtaskCount"`
	WeekNumber    int       `json:"weekNumber"`
	TotalWeeks    int       `json:"totalWeeks"`
	Boundary      bool      `json:"isBoundarySegment"`
	Last          bool      `json:"isLastSegment"`
	Completed     bool      `json:"completed"`
}

// DroppedDoc names a segment that was not rendered.
type DroppedDoc struct {
	TaskID string `json:"taskId"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// NewTimelineDoc converts a timeline.
func NewTimelineDoc(tl layout.Timeline) TimelineDoc {
	doc := TimelineDoc{
		WeekStart: tl.Window.Start,
		WeekEnd:   tl.Window.End,
		Zoom:      tl.Resolution.Zoom.String(),
		Blocks:    make([]BlockDoc, 0, len(tl.Blocks)),
		Width:     tl.Width(),
		Height:    tl.Height(),
		DayWidth:  tl.Resolution.DayWidth,
		LaneCount: tl.LaneCount,
	}
	for _, b := range tl.Blocks {
		doc.Blocks = append(doc.Blocks, BlockDoc{
			ClippedStart:  b.ClippedStart,
			ClippedEnd:    b.ClippedEnd,
			OriginalStart: b.OriginalStart,
			OriginalEnd:   b.OriginalEnd,
			TaskID:        b.TaskID(),
			Key:           b.Key(),
			Title:         taskTitle(b.Task),
			Color:         taskColor(b.Task),
			Left:          b.Left,
			X:             b.X,
			Width:         b.Width,
			Top:           b.Top,
			Height:        b.Height,
			Lane:          b.Lane,
			DayIndex:      b.DayIndex,
			EndDayIndex:   b.EndDayIndex,
			SpannedDays:   b.SpannedDays,
			SubtaskCount:  b.SubtaskCount,
			WeekNumber:    b.WeekNumber,
			TotalWeeks:    b.TotalWeeks,
			Boundary:      b.IsBoundarySegment,
			Last:          b.IsLastSegment,
			Completed:     b.Task != nil && b.Task.Completed,
		})
	}
	for _, d := range tl.Dropped {
		doc.Dropped = append(doc.Dropped, DroppedDoc{
			TaskID: d.Segment.TaskID(),
			Key:    d.Segment.SegmentID,
			Reason: d.Reason,
		})
	}
	return doc
}

// CalendarDoc is the JSON form of a calendar grid.
// Fields are ordered to minimize memory padding.
type CalendarDoc struct {
	Date          time.Time `json:"date"`
	Month         *MonthDoc `json:"month,omitempty"`
	View          string    `json:"view"`
	Days          []DayDoc  `json:"days,omitempty"`
	PixelsPerHour float64   `json:"pixelsPerHour"`
	DayHeight     float64   `json:"dayHeight"`
}

// DayDoc is one grid column.
type DayDoc struct {
	Date    time.Time  `json:"date"`
	Entries []EntryDoc `json:"entries"`
	Groups  int        `json:"groups"`
}

// MonthDoc is the 6x7 month grid.
type MonthDoc struct {
	Month time.Time `json:"month"`
	Cells []CellDoc `json:"cells"`
}

// CellDoc is one month cell.
type CellDoc struct {
	DayDoc
	InMonth bool `json:"inMonth"`
}

// EntryDoc is one positioned grid entry. Left and Width are percentages.
// Fields are ordered to minimize memory padding.
type EntryDoc struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TaskID          string    `json:"taskId"`
	Key             string    `json:"key"`
	Title           string    `json:"title"`
	Color           string    `json:"color"`
	Top             float64   `json:"top"`
	Height          float64   `json:"height"`
	Left            float64   `json:"left"`
	Width           float64   `json:"width"`
	Column          int       `json:"column"`
	GroupSize       int       `json:"groupSize"`
	Group           int       `json:"group"`
	SubtaskCount    int       `json:"subtaskCount"`
	ContinuesBefore bool      `json:"continuesBefore"`
	ContinuesAfter  bool      `json:"continuesAfter"`
	Completed       bool      `json:"completed"`
}

// NewDayDoc converts a grid column.
func NewDayDoc(col layout.DayColumn) DayDoc {
	doc := DayDoc{
		Date:    col.Date,
		Entries: make([]EntryDoc, 0, len(col.Entries)),
		Groups:  col.Groups,
	}
	for _, e := range col.Entries {
		doc.Entries = append(doc.Entries, EntryDoc{
			Start:           e.ClippedStart,
			End:             e.ClippedEnd,
			TaskID:          e.TaskID(),
			Key:             e.Key,
			Title:           taskTitle(e.Task),
			Color:           taskColor(e.Task),
			Top:             e.Top,
			Height:          e.Height,
			Left:            e.Left,
			Width:           e.Width,
			Column:          e.Column,
			GroupSize:       e.GroupSize,
			Group:           e.Group,
			SubtaskCount:    e.SubtaskCount,
			ContinuesBefore: e.ContinuesBefore,
			ContinuesAfter:  e.ContinuesAfter,
			Completed:       e.Task != nil && e.Task.Completed,
		})
	}
	return doc
}

// NewCalendarDoc converts day or week columns, or a month grid when month is set.
func NewCalendarDoc(view domain.View, date time.Time, days []layout.DayColumn, month *layout.MonthGrid, vp layout.Viewport) CalendarDoc {
	doc := CalendarDoc{
		Date:          date,
		View:          string(view),
		PixelsPerHour: vp.PixelsPerHour(),
		DayHeight:     vp.DayHeight(),
	}
	for _, col := range days {
		doc.Days = append(doc.Days, NewDayDoc(col))
	}
	if month != nil {
		m := &MonthDoc{Month: month.Month, Cells: make([]CellDoc, 0, len(month.Cells))}
		for _, cell := range month.Cells {
			m.Cells = append(m.Cells, CellDoc{DayDoc: NewDayDoc(cell.DayColumn), InMonth: cell.InMonth})
		}
		doc.Month = m
	}
	return doc
}

// TaskDoc is the JSON form of a task tree node.
// Fields are ordered to minimize memory padding.
type TaskDoc struct {
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Color        string     `json:"color,omitempty"`
	ParentID     string     `json:"parentId,omitempty"`
	SubTasks     []TaskDoc  `json:"subTasks,omitempty"`
	SubtaskCount int        `json:"subtaskCount"`
	Completed    bool       `json:"completed"`
}

// NewTaskDoc converts a task and its descendants.
func NewTaskDoc(t *domain.Task) TaskDoc {
	doc := TaskDoc{
		Start:        t.Start,
		End:          t.End,
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Color:        t.Color,
		ParentID:     t.ParentID,
		SubtaskCount: domain.TotalSubtaskCount(t),
		Completed:    t.Completed,
	}
	for _, sub := range t.SubTasks {
		doc.SubTasks = append(doc.SubTasks, NewTaskDoc(sub))
	}
	return doc
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
