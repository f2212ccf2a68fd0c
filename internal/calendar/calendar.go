// Package calendar implements trading-day arithmetic for a single fixed
// market calendar (NYSE). A "date" throughout this package is a time.Time
// normalized to midnight UTC; callers are expected to pass values through
// Normalize before comparing them with values returned from here.
package calendar

import "time"

// dateKey is the lookup format for the closure table.
const dateKey = "2006-01-02"

// Normalize strips the time-of-day and location from t, returning the plain
// calendar date as midnight UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsTradingDay reports whether the market is open on d. Saturdays, Sundays,
// and listed closure dates are non-trading days.
func IsTradingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !IsHoliday(d)
}

// IsHoliday reports whether d appears in the closure table.
func IsHoliday(d time.Time) bool {
	_, ok := marketClosures[Normalize(d).Format(dateKey)]
	return ok
}

// HolidayName returns the display name of the closure on d, if any.
func HolidayName(d time.Time) (string, bool) {
	name, ok := marketClosures[Normalize(d).Format(dateKey)]
	return name, ok
}

// NextTradingDay returns the first trading day strictly after d.
func NextTradingDay(d time.Time) time.Time {
	day := Normalize(d)
	for {
		day = day.AddDate(0, 0, 1)
		if IsTradingDay(day) {
			return day
		}
	}
}

// PreviousTradingDay returns the last trading day strictly before d.
func PreviousTradingDay(d time.Time) time.Time {
	day := Normalize(d)
	for {
		day = day.AddDate(0, 0, -1)
		if IsTradingDay(day) {
			return day
		}
	}
}

// TradingDayOnOrBefore returns d itself when the market is open on d,
// otherwise the nearest earlier trading day.
func TradingDayOnOrBefore(d time.Time) time.Time {
	day := Normalize(d)
	if IsTradingDay(day) {
		return day
	}
	return PreviousTradingDay(day)
}

// TradingDayOnOrAfter returns d itself when the market is open on d,
// otherwise the nearest later trading day.
func TradingDayOnOrAfter(d time.Time) time.Time {
	day := Normalize(d)
	if IsTradingDay(day) {
		return day
	}
	return NextTradingDay(day)
}

// TradingDaysBetween counts trading days from `from` to `to` in the direction
// of travel: the start date is excluded, the end date included. The result is
// 0 when both fall on the same calendar day, positive when `to` is later, and
// negative when it is earlier, so that "the report is N trading days away"
// reads as 0 = today, 1 = the next trading day.
func TradingDaysBetween(from, to time.Time) int {
	start := Normalize(from)
	end := Normalize(to)
	if start.Equal(end) {
		return 0
	}
	if end.Before(start) {
		return -TradingDaysBetween(end, start)
	}

	count := 0
	for day := start.AddDate(0, 0, 1); !day.After(end); day = day.AddDate(0, 0, 1) {
		if IsTradingDay(day) {
			count++
		}
	}
	return count
}

// TradingDaysInRange returns every trading day in [from, to] inclusive, in
// ascending order. The result is empty when from is after to.
func TradingDaysInRange(from, to time.Time) []time.Time {
	start := Normalize(from)
	end := Normalize(to)

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if IsTradingDay(day) {
			days = append(days, day)
		}
	}
	return days
}
