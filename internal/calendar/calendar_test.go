package calendar

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	est, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got := Normalize(time.Date(2026, time.March, 5, 18, 30, 12, 987, est))
	want := date(2026, time.March, 5)
	if !got.Equal(want) {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("Normalize() location = %v, want UTC", got.Location())
	}
}

func TestIsTradingDay(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"ordinary weekday", date(2026, time.August, 19), true},
		{"saturday", date(2026, time.August, 22), false},
		{"sunday", date(2026, time.August, 23), false},
		{"labor day", date(2026, time.September, 7), false},
		{"thanksgiving", date(2026, time.November, 26), false},
		{"day of mourning", date(2025, time.January, 9), false},
		{"day after thanksgiving", date(2026, time.November, 27), true},
		{"observed independence day", date(2026, time.July, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTradingDay(tt.day); got != tt.want {
				t.Errorf("IsTradingDay(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestHolidayName(t *testing.T) {
	name, ok := HolidayName(date(2026, time.November, 26))
	if !ok || name != "Thanksgiving Day" {
		t.Fatalf("HolidayName() = %q, %v; want %q, true", name, ok, "Thanksgiving Day")
	}
	if _, ok := HolidayName(date(2026, time.November, 27)); ok {
		t.Fatal("HolidayName() reported a closure on an open day")
	}
}

func TestNextTradingDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"weekday to weekday", date(2026, time.August, 18), date(2026, time.August, 19)},
		{"friday over weekend", date(2026, time.August, 21), date(2026, time.August, 24)},
		{"friday over labor day weekend", date(2026, time.September, 4), date(2026, time.September, 8)},
		{"year boundary over new year", date(2025, time.December, 31), date(2026, time.January, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextTradingDay(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("NextTradingDay(%s) = %s, want %s",
					tt.from.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
			if !got.After(Normalize(tt.from)) {
				t.Errorf("NextTradingDay(%s) did not move forward", tt.from.Format("2006-01-02"))
			}
			if !IsTradingDay(got) {
				t.Errorf("NextTradingDay(%s) landed on a closed day", tt.from.Format("2006-01-02"))
			}
		})
	}
}

func TestPreviousTradingDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"weekday to weekday", date(2026, time.August, 20), date(2026, time.August, 19)},
		{"monday over weekend", date(2026, time.August, 24), date(2026, time.August, 21)},
		{"tuesday over labor day weekend", date(2026, time.September, 8), date(2026, time.September, 4)},
		{"friday after thanksgiving", date(2026, time.November, 27), date(2026, time.November, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreviousTradingDay(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("PreviousTradingDay(%s) = %s, want %s",
					tt.from.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestTradingDayOnOrBefore(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{"trading day maps to itself", date(2026, time.August, 19), date(2026, time.August, 19)},
		{"saturday to friday", date(2026, time.September, 5), date(2026, time.September, 4)},
		{"holiday monday to friday", date(2026, time.September, 7), date(2026, time.September, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TradingDayOnOrBefore(tt.day)
			if !got.Equal(tt.want) {
				t.Errorf("TradingDayOnOrBefore(%s) = %s, want %s",
					tt.day.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
			// Applying it twice must not move the date again.
			if again := TradingDayOnOrBefore(got); !again.Equal(got) {
				t.Errorf("TradingDayOnOrBefore is not idempotent: %s -> %s",
					got.Format("2006-01-02"), again.Format("2006-01-02"))
			}
		})
	}
}

func TestTradingDayOnOrAfter(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{"trading day maps to itself", date(2026, time.August, 19), date(2026, time.August, 19)},
		{"saturday over holiday monday", date(2026, time.September, 5), date(2026, time.September, 8)},
		{"thanksgiving to friday", date(2026, time.November, 26), date(2026, time.November, 27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TradingDayOnOrAfter(tt.day)
			if !got.Equal(tt.want) {
				t.Errorf("TradingDayOnOrAfter(%s) = %s, want %s",
					tt.day.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestTradingDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2026, time.August, 19), date(2026, time.August, 19), 0},
		{"same day with time-of-day noise", date(2026, time.August, 19), time.Date(2026, time.August, 19, 15, 45, 0, 0, time.UTC), 0},
		{"adjacent weekdays", date(2026, time.August, 18), date(2026, time.August, 19), 1},
		{"friday to monday", date(2026, time.August, 21), date(2026, time.August, 24), 1},
		{"across thanksgiving", date(2026, time.November, 25), date(2026, time.November, 30), 2},
		{"across labor day weekend", date(2026, time.September, 4), date(2026, time.September, 8), 1},
		{"backward over weekend", date(2026, time.August, 24), date(2026, time.August, 21), -1},
		{"full week", date(2026, time.August, 17), date(2026, time.August, 24), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TradingDaysBetween(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("TradingDaysBetween(%s, %s) = %d, want %d",
					tt.from.Format("2006-01-02"), tt.to.Format("2006-01-02"), got, tt.want)
			}
			if back := TradingDaysBetween(tt.to, tt.from); back != -got {
				t.Errorf("TradingDaysBetween is not antisymmetric: forward %d, backward %d", got, back)
			}
		})
	}
}

func TestTradingDaysInRange(t *testing.T) {
	got := TradingDaysInRange(date(2026, time.November, 23), date(2026, time.November, 30))
	want := []time.Time{
		date(2026, time.November, 23),
		date(2026, time.November, 24),
		date(2026, time.November, 25),
		date(2026, time.November, 27),
		date(2026, time.November, 30),
	}

	if len(got) != len(want) {
		t.Fatalf("TradingDaysInRange() returned %d days, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("TradingDaysInRange()[%d] = %s, want %s",
				i, got[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}

	if empty := TradingDaysInRange(date(2026, time.August, 24), date(2026, time.August, 21)); len(empty) != 0 {
		t.Fatalf("TradingDaysInRange() with inverted bounds returned %d days, want 0", len(empty))
	}
}
