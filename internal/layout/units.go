package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
)

// ZoomMode selects the resolution of the timeline ruler.
type ZoomMode int

const (
	ZoomOut ZoomMode = iota // Hour columns, minutes not rendered
	ZoomIn                  // Minute precision
)

// String returns the string representation of the zoom mode.
func (z ZoomMode) String() string {
	switch z {
	case ZoomOut:
		return "out"
	case ZoomIn:
		return "in"
	default:
		return "unknown"
	}
}

// Toggle returns the other zoom mode.
func (z ZoomMode) Toggle() ZoomMode {
	if z == ZoomIn {
		return ZoomOut
	}
	return ZoomIn
}

// ParseZoom parses "in" or "out" (empty = out).
func ParseZoom(s string) (ZoomMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "out":
		return ZoomOut, nil
	case "in":
		return ZoomIn, nil
	default:
		return ZoomOut, fmt.Errorf("%w: %q", domain.ErrInvalidZoom, s)
	}
}

// Timeline scale constants in pixels.
const (
	ZoomedInHourWidth    = 240
	ZoomedInMinuteWidth  = 4
	ZoomedOutHourWidth   = 40
	ZoomedOutMinuteWidth = 0

	// ZoomedInMinBlockWidth keeps short tasks readable (30 minutes).
	ZoomedInMinBlockWidth = 120
	// ZoomedOutMinBlockWidth is one hour column. It is deliberately below the
	// 120px zoomed-in floor: at 40px per hour a 120px floor would draw a
	// two-hour task as three hours wide instead of 80px.
	ZoomedOutMinBlockWidth = ZoomedOutHourWidth

	hoursPerDay   = 24
	minutesPerDay = 24 * 60
)

// Resolution converts time offsets into timeline pixels for one zoom mode.
// Fields are ordered to minimize memory padding.
type Resolution struct {
	HourWidth     float64
	MinuteWidth   float64
	DayWidth      float64
	MinBlockWidth float64
	Zoom          ZoomMode
}

// ResolutionFor returns the pixel scale of zoom.
func ResolutionFor(zoom ZoomMode) Resolution {
	if zoom == ZoomIn {
		return Resolution{
			Zoom:          ZoomIn,
			HourWidth:     ZoomedInHourWidth,
			MinuteWidth:   ZoomedInMinuteWidth,
			DayWidth:      ZoomedInHourWidth * hoursPerDay,
			MinBlockWidth: ZoomedInMinBlockWidth,
		}
	}
	return Resolution{
		Zoom:          ZoomOut,
		HourWidth:     ZoomedOutHourWidth,
		MinuteWidth:   ZoomedOutMinuteWidth,
		DayWidth:      ZoomedOutHourWidth * hoursPerDay,
		MinBlockWidth: ZoomedOutMinBlockWidth,
	}
}

// HoursToPixels converts a number of hours to pixels.
func (r Resolution) HoursToPixels(hours float64) float64 {
	return hours * r.HourWidth
}

// MinutesToPixels converts a number of minutes to pixels.
func (r Resolution) MinutesToPixels(minutes float64) float64 {
	return minutes * r.MinuteWidth
}

// Offset returns the pixel offset of t inside its day column.
// Zoomed out only the hour counts; zoomed in the minute of day counts.
func (r Resolution) Offset(t time.Time) float64 {
	if r.Zoom == ZoomIn {
		return r.MinutesToPixels(float64(t.Hour()*60 + t.Minute()))
	}
	return r.HoursToPixels(float64(t.Hour()))
}

// WeekWidth returns the width of a full seven-day ruler.
func (r Resolution) WeekWidth() float64 {
	return r.DayWidth * DaysPerWeek
}

// Grid scale constants in pixels per hour.
const (
	NarrowPixelsPerHour  = 48
	DefaultPixelsPerHour = 64
)

// Viewport describes the calendar grid's vertical scale.
type Viewport struct {
	Narrow bool // Compact screens use a smaller hour height
}

// PixelsPerHour returns the grid's hour height.
func (v Viewport) PixelsPerHour() float64 {
	if v.Narrow {
		return NarrowPixelsPerHour
	}
	return DefaultPixelsPerHour
}

// MinutesToPixels converts minutes to vertical grid pixels.
func (v Viewport) MinutesToPixels(minutes float64) float64 {
	return minutes * v.PixelsPerHour() / 60
}

// DayHeight returns the height of a full day column.
func (v Viewport) DayHeight() float64 {
	return v.MinutesToPixels(minutesPerDay)
}
