package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrNotInitialized   = errors.New("timegrid not initialized (run 'timegrid config init' or 'timegrid import' first)")
	ErrConfigExists     = errors.New("config file already exists")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidZoom      = errors.New("invalid zoom mode (want \"in\" or \"out\")")
	ErrInvalidView      = errors.New("invalid calendar view (want day, week or month)")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidWeekday   = errors.New("invalid week start (want sunday or monday)")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrUnknownStore     = errors.New("unknown task store")
	ErrReadOnlyStore    = errors.New("task store is read-only")
	ErrInvalidTaskFile  = errors.New("invalid task file")
	ErrInvalidFormat    = errors.New("invalid output format (want text, json or svg)")
	ErrUnsupportedView  = errors.New("view not available in this format")
	ErrInvalidTimeRange = errors.New("task ends before it starts")
	ErrNotGitRepository = errors.New("not a git repository (or any of the parent directories)")
	ErrNoCredentials    = errors.New("google calendar credentials not configured")
)
