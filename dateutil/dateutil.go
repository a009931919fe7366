// Package dateutil resolves Monday-aligned week boundaries for pay
// period lookups. Pay periods in the attendance store always start on
// a Monday, so every date question this job asks reduces to "which
// Monday governs this date".
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

const DefaultLayout = "2006-01-02"

// Util formats and walks Monday dates in a fixed layout. The zero-padded
// default layout keeps lexicographic string comparison safe for date
// ordering.
type Util struct {
	Layout string
	// Now is the clock; tests substitute a fixed date.
	Now func() time.Time
}

func New() Util {
	return Util{Layout: DefaultLayout, Now: time.Now}
}

func NewWithLayout(layout string) Util {
	return Util{Layout: layout, Now: time.Now}
}

func (u Util) Parse(s string) (time.Time, error) {
	t, err := time.Parse(u.Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func (u Util) Format(t time.Time) string {
	return t.Format(u.Layout)
}

// MondayOf returns the Monday of the week containing t, truncated to
// midnight in t's location. Go weekdays are Sunday-indexed; pay weeks
// are Monday-indexed.
func MondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// ThisMonday returns the Monday of the current week.
func (u Util) ThisMonday() string {
	return u.Format(MondayOf(u.Now()))
}

// LastMonday returns the Monday of the previous week. Pay periods run
// Monday to Sunday, so the period eligible for reminders on any given
// run day is the one starting on this date.
func (u Util) LastMonday() string {
	return u.Format(MondayOf(u.Now()).AddDate(0, 0, -7))
}

// NextMonday returns the Monday of the next week.
func (u Util) NextMonday() string {
	return u.Format(MondayOf(u.Now()).AddDate(0, 0, 7))
}

// PastMondays returns numWeeks Monday dates, index 0 being the current
// week's Monday and each later index one week earlier.
func (u Util) PastMondays(numWeeks int) ([]string, error) {
	if numWeeks < 1 {
		return nil, errors.New("numWeeks must be a positive integer")
	}
	current := MondayOf(u.Now())
	mondays := make([]string, 0, numWeeks)
	for i := 0; i < numWeeks; i++ {
		mondays = append(mondays, u.Format(current.AddDate(0, 0, -7*i)))
	}
	return mondays, nil
}

// MondaysBetween returns the Monday dates governing the range
// [start, end], stepping a week at a time. When start > end the result
// is empty. The first element is the Monday at or before start, even
// when that Monday falls outside the range: callers asking about a
// sub-week range still need the Monday its pay period starts on.
func (u Util) MondaysBetween(startDate, endDate string) ([]string, error) {
	if startDate > endDate {
		return nil, nil
	}
	start, err := u.Parse(startDate)
	if err != nil {
		return nil, err
	}
	end, err := u.Parse(endDate)
	if err != nil {
		return nil, err
	}

	monday := MondayOf(start)
	mondays := []string{u.Format(monday)}
	for {
		monday = monday.AddDate(0, 0, 7)
		if monday.After(end) {
			break
		}
		mondays = append(mondays, u.Format(monday))
	}
	return mondays, nil
}
