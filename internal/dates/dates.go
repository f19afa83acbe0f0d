// Package dates handles the ISO-8601 calendar dates stored on goals and
// transactions, and the reporting periods built from them.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the layout used for every stored calendar date.
const ISODate = "2006-01-02"

// Parse accepts a YYYY-MM-DD date or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(ISODate, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC3339", s)
}

// Normalize rewrites a parsable date as YYYY-MM-DD. The second result is
// false when s is not a recognizable date, in which case s is returned
// trimmed but otherwise unchanged.
func Normalize(s string) (string, bool) {
	t, err := Parse(s)
	if err != nil {
		return strings.TrimSpace(s), false
	}
	return t.Format(ISODate), true
}

// Format renders t's calendar date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(ISODate)
}

// Day truncates t to its calendar date, expressed at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from `from` to `to`, negative
// when `to` is earlier.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// MonthRange returns the first and last calendar day of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Period names accepted by PeriodRange.
const (
	PeriodToday       = "today"
	PeriodThisWeek    = "this_week"
	PeriodThisMonth   = "this_month"
	PeriodLastMonth   = "last_month"
	PeriodThisQuarter = "this_quarter"
	PeriodThisYear    = "this_year"
	PeriodLast30Days  = "last_30_days"
	PeriodLast90Days  = "last_90_days"
)

// PeriodRange resolves a named reporting period relative to now. Weeks
// start on Monday.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	today := Day(now)

	switch period {
	case PeriodToday:
		return today, today, nil
	case PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6), nil
	case PeriodThisMonth:
		start, end := MonthRange(today)
		return start, end, nil
	case PeriodLastMonth:
		start, end := MonthRange(time.Date(today.Year(), today.Month(), 0, 0, 0, 0, 0, time.UTC))
		return start, end, nil
	case PeriodThisQuarter:
		startMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		start := time.Date(today.Year(), startMonth, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, -1), nil
	case PeriodThisYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(today.Year(), 12, 31, 0, 0, 0, 0, time.UTC), nil
	case PeriodLast30Days:
		return today.AddDate(0, 0, -29), today, nil
	case PeriodLast90Days:
		return today.AddDate(0, 0, -89), today, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", period)
}
