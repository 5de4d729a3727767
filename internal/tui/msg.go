package tui

import "github.com/runoshun/timegrid/internal/usecase"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTimelineLoaded is sent when a week timeline has been laid out.
type MsgTimelineLoaded struct {
	Output *usecase.ShowTimelineOutput
}

func (MsgTimelineLoaded) sealed() {}

// MsgCalendarLoaded is sent when a day, week or month grid has been laid out.
type MsgCalendarLoaded struct {
	Output *usecase.ShowCalendarOutput
}

func (MsgCalendarLoaded) sealed() {}

// MsgTaskLoaded is sent when the detail of a task has been loaded.
type MsgTaskLoaded struct {
	Output *usecase.ShowTaskOutput
}

func (MsgTaskLoaded) sealed() {}

// MsgError is sent when a command fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
