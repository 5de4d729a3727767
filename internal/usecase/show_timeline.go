// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
)

// ShowTimelineInput contains the parameters for laying out a week timeline.
type ShowTimelineInput struct {
	Date string // Any day of the week to show, YYYY-MM-DD (empty = today)
	Zoom string // "in" or "out" (empty = [layout] zoom)
}

// ShowTimelineOutput contains the laid out week.
// Fields are ordered to minimize memory padding.
type ShowTimelineOutput struct {
	WeekStart time.Time
	Now       time.Time // Current time in the configured location
	Timeline  layout.Timeline
	Zoom      layout.ZoomMode
}

// ShowTimeline is the use case for the continuous weekly timeline.
type ShowTimeline struct {
	tasks        domain.TaskReader
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       domain.Logger
}

// NewShowTimeline creates a new ShowTimeline use case.
func NewShowTimeline(
	tasks domain.TaskReader,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
	logger domain.Logger,
) *ShowTimeline {
	return &ShowTimeline{
		tasks:        tasks,
		configLoader: configLoader,
		clock:        clock,
		logger:       logger,
	}
}

// Execute lays out the scheduled top-level tasks of one week.
func (uc *ShowTimeline) Execute(ctx context.Context, in ShowTimelineInput) (*ShowTimelineOutput, error) {
	settings, err := loadLayoutSettings(uc.configLoader)
	if err != nil {
		return nil, err
	}

	zoom := settings.zoom
	if in.Zoom != "" {
		if zoom, err = layout.ParseZoom(in.Zoom); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now().In(settings.loc)
	day, err := domain.ParseDate(in.Date, now, settings.loc)
	if err != nil {
		return nil, err
	}
	weekStart := layout.StartOfWeek(day, settings.weekStart)

	tasks, err := scheduledSnapshot(ctx, uc.tasks)
	if err != nil {
		return nil, err
	}

	tl := layout.LayoutTimeline(tasks, weekStart, zoom)
	for _, d := range tl.Dropped {
		uc.logger.Warn(d.Segment.TaskID(), "layout", fmt.Sprintf("segment %s not rendered: %s", d.Segment.SegmentID, d.Reason))
	}
	uc.logger.Debug("", "layout", fmt.Sprintf("timeline %s zoom=%s blocks=%d lanes=%d",
		weekStart.Format(domain.DateLayout), zoom, len(tl.Blocks), tl.LaneCount))

	return &ShowTimelineOutput{
		WeekStart: weekStart,
		Now:       now,
		Timeline:  tl,
		Zoom:      zoom,
	}, nil
}
