package billing

import (
	"errors"
	"fmt"
	"time"

	"gastos-server/internal/models"
)

// ErrInvalidMonth is returned when a year/month pair is out of range.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Window is the inclusive date range a billing period covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns how many calendar days the window spans, inclusive.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Contains reports whether d falls inside the window. Only the calendar date
// matters; time-of-day is ignored.
func (w Window) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start) && !day.After(w.End)
}

// ResolveWindow maps (account, year, month) to the billing period window.
// Recurring accounts resolve to the calendar month. Card accounts resolve to
// the cyclic window starting at the rule's StartDay of the given month; when
// EndDay < StartDay the window closes in the following month, rolling the
// year across December. EndDay == StartDay is treated as a same-month window.
func ResolveWindow(rule PeriodRule, year, month int) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}

	if rule.IsRecurring {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return Window{
			Start: start,
			End:   time.Date(year, time.Month(month), daysInMonth(year, time.Month(month)), 0, 0, 0, 0, time.UTC),
		}, nil
	}

	startDay := clampDay(year, time.Month(month), rule.StartDay)
	start := time.Date(year, time.Month(month), startDay, 0, 0, 0, 0, time.UTC)

	endYear, endMonth := year, time.Month(month)
	if rule.EndDay < rule.StartDay {
		endMonth++
		if endMonth > time.December {
			endMonth = time.January
			endYear++
		}
	}
	endDay := clampDay(endYear, endMonth, rule.EndDay)
	return Window{
		Start: start,
		End:   time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC),
	}, nil
}

// ResolveAccountWindow looks up the account's rule and resolves its window.
func ResolveAccountWindow(account models.Account, year, month int) (Window, error) {
	rule, err := RuleFor(account)
	if err != nil {
		return Window{}, err
	}
	return ResolveWindow(rule, year, month)
}

// AddMonths advances a date by n calendar months, clamping the day to the
// last valid day of the target month. Jan 31 + 1 month is the last day of
// February, never an overflow into March.
func AddMonths(d time.Time, n int) time.Time {
	year := d.Year()
	month := int(d.Month()) + n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	day := clampDay(year, time.Month(month), d.Day())
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// MonthKey formats a (year, month) pair as the ledger's month key, e.g.
// "2024-06".
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// NextMonth returns the calendar month following (year, month).
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year int, month time.Month, day int) int {
	if last := daysInMonth(year, month); day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}
