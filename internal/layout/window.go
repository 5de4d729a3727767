// Package layout places time-ranged tasks onto a weekly timeline and a
// day/week/month calendar grid.
//
// Every function in this package is pure: it reads the task tree, never
// mutates it, and rebuilds its output on each call. All calendar
// arithmetic happens in the location of the window being laid out.
package layout

import (
	"time"
)

// DaysPerWeek is the length of a timeline window.
const DaysPerWeek = 7

// Window is an inclusive range of whole calendar days.
type Window struct {
	Start time.Time // 00:00:00 of the first day
	End   time.Time // 23:59:59 of the last day
	days  int
}

// WeekWindow returns the seven-day window starting on the calendar day of start.
func WeekWindow(start time.Time) Window {
	return newWindow(StartOfDay(start), DaysPerWeek)
}

// DayWindow returns the window covering the calendar day of day.
func DayWindow(day time.Time) Window {
	return newWindow(StartOfDay(day), 1)
}

// MonthWindow returns the window covering the calendar month of day.
func MonthWindow(day time.Time) Window {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	next := first.AddDate(0, 1, 0)
	return newWindow(first, daysBetween(first, next))
}

func newWindow(start time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	last := start.AddDate(0, 0, days-1)
	end := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, start.Location())
	return Window{Start: start, End: end, days: days}
}

// Location returns the location all window arithmetic happens in.
func (w Window) Location() *time.Location {
	return w.Start.Location()
}

// Len returns the number of calendar days in the window.
func (w Window) Len() int {
	return w.days
}

// Days lists the calendar dates covered by the window, at midnight.
func (w Window) Days() []time.Time {
	days := make([]time.Time, w.days)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// DayIndex returns the index of t's calendar date within Days, or -1 if
// the date is not part of the window.
func (w Window) DayIndex(t time.Time) int {
	idx := daysBetween(w.Start, t.In(w.Location()))
	if idx < 0 || idx >= w.days {
		return -1
	}
	return idx
}

// Contains reports whether t lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Shift returns the window of the same length moved by n windows.
func (w Window) Shift(n int) Window {
	return newWindow(w.Start.AddDate(0, 0, n*w.days), w.days)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns midnight of the most recent weekStart on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + DaysPerWeek) % DaysPerWeek
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// daysBetween counts calendar days from a's date to b's date.
// It compares dates rather than durations so DST transitions do not skew it.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
