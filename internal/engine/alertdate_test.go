package engine

import (
	"testing"
	"time"

	"earnings-alerts/internal/report"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAlertDateFor(t *testing.T) {
	tests := []struct {
		name      string
		reportDay time.Time
		timeOfDay string
		offset    int
		want      time.Time
	}{
		{"postmarket fires on the report day", date(2026, time.August, 19), "after close", 0, date(2026, time.August, 19)},
		{"premarket fires the prior day", date(2026, time.August, 20), "premarket", 0, date(2026, time.August, 19)},
		{"missing annotation treated as premarket", date(2026, time.August, 20), "", 0, date(2026, time.August, 19)},
		{"unreadable annotation treated as premarket", date(2026, time.August, 20), "time tbd", 0, date(2026, time.August, 19)},
		{"premarket after a long weekend", date(2026, time.September, 8), "before open", 0, date(2026, time.September, 4)},
		{"premarket skips thanksgiving", date(2026, time.November, 27), "bmo", 0, date(2026, time.November, 25)},
		{"postmarket on a weekend date", date(2026, time.August, 22), "after close", 0, date(2026, time.August, 21)},
		{"offset adds lead time", date(2026, time.August, 19), "after close", 1, date(2026, time.August, 18)},
		{"offset steps over a weekend", date(2026, time.August, 24), "after close", 1, date(2026, time.August, 21)},
		{"offset two from a premarket report", date(2026, time.August, 20), "premarket", 2, date(2026, time.August, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := report.New("AAPL", "Apple Inc.", tt.reportDay, tt.timeOfDay)
			got := AlertDateFor(r, tt.offset)
			if !got.Equal(tt.want) {
				t.Errorf("AlertDateFor(%s %q, %d) = %s, want %s",
					tt.reportDay.Format("2006-01-02"), tt.timeOfDay, tt.offset,
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}
