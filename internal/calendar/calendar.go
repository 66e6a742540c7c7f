// Package calendar maps calendar dates to plan days and canonical date keys.
//
// Canonical keys ("2006-01-02") are treated as plain calendar days: all
// arithmetic on them is timezone independent. The only place a timezone
// matters is deciding what "today" is, which Clock does for the whole process.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date key format.
const DateLayout = "2006-01-02"

// DayName returns the English weekday name of t.
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// FormatDate returns the canonical key for the calendar day of t in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PlanDayIndex maps a weekday to its plan slot: Monday=0 .. Saturday=5, Sunday=6.
func PlanDayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// ParseDate parses a canonical key into midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidDate reports whether s is a canonical date key.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// PlanDayIndexOf is PlanDayIndex for a canonical key.
func PlanDayIndexOf(s string) (int, error) {
	t, err := ParseDate(s)
	if err != nil {
		return 0, err
	}
	return PlanDayIndex(t), nil
}

// AddDays shifts a canonical key by n calendar days.
func AddDays(s string, n int) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// WeekStart returns the Sunday that starts the week containing s.
func WeekStart(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, -int(t.Weekday()))), nil
}

// MonthKey returns the YYYY-MM prefix of a canonical key.
func MonthKey(s string) string {
	if len(s) < 7 {
		return s
	}
	return s[:7]
}

// Clock decides what "today" is. A nil Now uses time.Now.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock builds a clock for an IANA zone name; empty means UTC.
func NewClock(zone string) (Clock, error) {
	if zone == "" {
		return Clock{Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Clock{}, fmt.Errorf("loading timezone %q: %w", zone, err)
	}
	return Clock{Location: loc}, nil
}

// FixedClock always reports the given instant. Used by tests and report previews.
func FixedClock(t time.Time) Clock {
	return Clock{Location: t.Location(), Now: func() time.Time { return t }}
}

// Current returns the current instant in the clock's location.
func (c Clock) Current() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today returns the canonical key of the current day.
func (c Clock) Today() string {
	return FormatDate(c.Current())
}

// Yesterday returns the canonical key of the day before Today.
func (c Clock) Yesterday() string {
	return FormatDate(c.Current().AddDate(0, 0, -1))
}
