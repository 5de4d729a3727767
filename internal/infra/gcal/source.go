package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/runoshun/timegrid/internal/domain"
)

// Ensure Source implements domain.TaskReader.
var _ domain.TaskReader = (*Source)(nil)

// eventColors maps Google Calendar event color ids to their hex values.
var eventColors = map[string]string{
	"1":  "#7986cb",
	"2":  "#33b679",
	"3":  "#8e24aa",
	"4":  "#e67c73",
	"5":  "#f6bf26",
	"6":  "#f4511e",
	"7":  "#039be5",
	"8":  "#616161",
	"9":  "#3f51b5",
	"10": "#0b8043",
	"11": "#d50000",
}

// Source lists calendar events as top-level tasks.
// Fields are ordered to minimize memory padding.
type Source struct {
	srv        *calendar.Service
	clock      domain.Clock
	loc        *time.Location
	calendarID string
	lookback   int
	lookahead  int
}

// Options configures a Source.
type Options struct {
	Clock     domain.Clock
	Location  *time.Location
	Calendar  string
	Lookback  int // Days before now
	Lookahead int // Days after now
}

// NewSource wraps an existing calendar service.
func NewSource(srv *calendar.Service, opts Options) *Source {
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Calendar == "" {
		opts.Calendar = domain.DefaultGCalCalendar
	}
	return &Source{
		srv:        srv,
		clock:      opts.Clock,
		loc:        opts.Location,
		calendarID: opts.Calendar,
		lookback:   opts.Lookback,
		lookahead:  opts.Lookahead,
	}
}

// Open builds an authenticated Source from client secrets and a saved token.
func Open(ctx context.Context, credentialsPath, tokenPath string, opts Options) (*Source, error) {
	cfg, err := loadOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(tokenPath)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return NewSource(srv, opts), nil
}

// Range returns the time range List queries.
func (s *Source) Range() (time.Time, time.Time) {
	now := s.clock.Now().In(s.loc)
	return now.AddDate(0, 0, -s.lookback), now.AddDate(0, 0, s.lookahead)
}

// List returns the calendar's events in Range as tasks. Recurring events are
// expanded by the API into single instances.
func (s *Source) List(ctx context.Context) ([]*domain.Task, error) {
	timeMin, timeMax := s.Range()

	var tasks []*domain.Task
	err := s.srv.Events.List(s.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			for _, ev := range page.Items {
				task, err := taskFromEvent(ev, s.loc)
				if err != nil {
					return err
				}
				if task != nil {
					tasks = append(tasks, task)
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list events of %s: %w", s.calendarID, err)
	}
	return tasks, nil
}

// taskFromEvent converts an event. Cancelled events yield nil.
// All-day events end at 23:59:59 of their last day.
func taskFromEvent(ev *calendar.Event, loc *time.Location) (*domain.Task, error) {
	if ev == nil || ev.Status == "cancelled" {
		return nil, nil
	}

	task := &domain.Task{
		ID:          ev.Id,
		Title:       ev.Summary,
		Description: ev.Description,
		Color:       eventColors[ev.ColorId],
	}
	if task.Title == "" {
		task.Title = "(no title)"
	}

	start, err := eventTime(ev.Start, loc, false)
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", ev.Id, err)
	}
	end, err := eventTime(ev.End, loc, true)
	if err != nil {
		return nil, fmt.Errorf("event %s end: %w", ev.Id, err)
	}
	task.Start, task.End = start, end
	return task, nil
}

// eventTime reads a timed or all-day event boundary. The exclusive end date of
// an all-day event is moved back one second.
func eventTime(dt *calendar.EventDateTime, loc *time.Location, isEnd bool) (*time.Time, error) {
	if dt == nil {
		return nil, nil
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return nil, err
		}
		t = t.In(loc)
		return &t, nil
	}
	if dt.Date == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, dt.Date, loc)
	if err != nil {
		return nil, err
	}
	if isEnd {
		t = t.Add(-time.Second)
	}
	return &t, nil
}
