// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
)

// layoutSettings are the [layout] values every view needs, resolved once per call.
// Fields are ordered to minimize memory padding.
type layoutSettings struct {
	loc       *time.Location
	weekStart time.Weekday
	zoom      layout.ZoomMode
	narrow    bool
}

// loadLayoutSettings loads the merged config and resolves its layout section.
// A nil loader yields the defaults.
func loadLayoutSettings(loader domain.ConfigLoader) (layoutSettings, error) {
	cfg := domain.NewDefaultConfig()
	if loader != nil {
		loaded, err := loader.Load()
		if err != nil {
			return layoutSettings{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	loc, err := cfg.Location()
	if err != nil {
		return layoutSettings{}, err
	}
	weekStart, err := cfg.WeekStartDay()
	if err != nil {
		return layoutSettings{}, err
	}
	zoom, err := layout.ParseZoom(cfg.Layout.Zoom)
	if err != nil {
		return layoutSettings{}, err
	}

	return layoutSettings{
		loc:       loc,
		weekStart: weekStart,
		zoom:      zoom,
		narrow:    cfg.Layout.Narrow,
	}, nil
}

// scheduledSnapshot lists tasks and keeps the ones the layout engine accepts.
func scheduledSnapshot(ctx context.Context, tasks domain.TaskReader) ([]*domain.Task, error) {
	all, err := tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return domain.ScheduledRoots(all), nil
}
