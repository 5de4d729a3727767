package domain

import (
	"fmt"
	"strings"
	"time"
)

// View identifies which visual axis tasks are laid out on.
type View string

// Views.
const (
	ViewTimeline View = "timeline" // Continuous weekly lane layout
	ViewDay      View = "day"      // Single day grid column
	ViewWeek     View = "week"     // Seven day grid columns
	ViewMonth    View = "month"    // Month cells
)

// AllViews returns every view in cycling order.
func AllViews() []View {
	return []View{ViewTimeline, ViewDay, ViewWeek, ViewMonth}
}

// ParseCalendarView parses a grid view name (day, week, month).
func ParseCalendarView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewDay:
		return ViewDay, nil
	case ViewWeek, "":
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
	}
}

// Next returns the view that follows v when cycling.
func (v View) Next() View {
	views := AllViews()
	for i, candidate := range views {
		if candidate == v {
			return views[(i+1)%len(views)]
		}
	}
	return ViewTimeline
}

// DateLayout is the accepted format for dates on the command line and in URLs.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
// An empty string yields the calendar day of now.
func ParseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc), nil
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want %s)", ErrInvalidDate, s, DateLayout)
	}
	return d, nil
}
