package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
)

// ShowCalendarInput contains the parameters for laying out a calendar grid.
type ShowCalendarInput struct {
	Narrow *bool  // Compact hour height (nil = [layout] narrow)
	View   string // day, week or month (empty = week)
	Date   string // Day inside the period to show, YYYY-MM-DD (empty = today)
}

// ShowCalendarOutput contains the laid out grid.
// Days holds one column for the day view and seven for the week view.
// Month is set for the month view only.
// Fields are ordered to minimize memory padding.
type ShowCalendarOutput struct {
	Date     time.Time
	Now      time.Time
	Month    *layout.MonthGrid
	View     domain.View
	Days     []layout.DayColumn
	Viewport layout.Viewport
}

// ShowCalendar is the use case for the day, week and month grids.
type ShowCalendar struct {
	tasks        domain.TaskReader
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       domain.Logger
}

// NewShowCalendar creates a new ShowCalendar use case.
func NewShowCalendar(
	tasks domain.TaskReader,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
	logger domain.Logger,
) *ShowCalendar {
	return &ShowCalendar{
		tasks:        tasks,
		configLoader: configLoader,
		clock:        clock,
		logger:       logger,
	}
}

// Execute lays out the scheduled top-level tasks on the requested grid.
func (uc *ShowCalendar) Execute(ctx context.Context, in ShowCalendarInput) (*ShowCalendarOutput, error) {
	view, err := domain.ParseCalendarView(in.View)
	if err != nil {
		return nil, err
	}

	settings, err := loadLayoutSettings(uc.configLoader)
	if err != nil {
		return nil, err
	}
	vp := layout.Viewport{Narrow: settings.narrow}
	if in.Narrow != nil {
		vp.Narrow = *in.Narrow
	}

	now := uc.clock.Now().In(settings.loc)
	day, err := domain.ParseDate(in.Date, now, settings.loc)
	if err != nil {
		return nil, err
	}

	tasks, err := scheduledSnapshot(ctx, uc.tasks)
	if err != nil {
		return nil, err
	}

	out := &ShowCalendarOutput{
		Date:     day,
		Now:      now,
		View:     view,
		Viewport: vp,
	}
	switch view {
	case domain.ViewDay:
		out.Days = []layout.DayColumn{layout.LayoutDay(tasks, day, vp)}
	case domain.ViewMonth:
		grid := layout.LayoutMonth(tasks, day, settings.weekStart, vp)
		out.Month = &grid
	default:
		out.Days = layout.LayoutWeekGrid(tasks, layout.StartOfWeek(day, settings.weekStart), vp)
	}

	uc.logger.Debug("", "layout", fmt.Sprintf("calendar %s %s", view, day.Format(domain.DateLayout)))
	return out, nil
}
