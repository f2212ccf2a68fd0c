package session

import "testing"

func TestClassifyWording(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Category
	}{
		{"plain premarket", "premarket", Premarket},
		{"hyphenated premarket", "Pre-Market", Premarket},
		{"before market open", "Before Market Open", Premarket},
		{"before the bell", "before the bell", Premarket},
		{"bmo abbreviation", "BMO", Premarket},
		{"plain postmarket", "postmarket", Postmarket},
		{"after market close", "After Market Close", Postmarket},
		{"after hours", "after hours", Postmarket},
		{"amc abbreviation", "AMC", Postmarket},
		{"premarket wins when both appear", "pre-market, call after hours", Premarket},
		{"no signal", "time to be announced", Unknown},
		{"empty", "", Unknown},
		{"whitespace only", "   ", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.raw); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassifyClockTimes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Category
	}{
		{"morning with meridiem", "8:00 am ET", Premarket},
		{"morning hour only", "7 am", Premarket},
		{"dotted meridiem", "4:05 p.m.", Postmarket},
		{"evening with meridiem", "4:30 PM", Postmarket},
		{"open boundary inclusive", "9:30 am", Premarket},
		{"just after the open", "9:31 am", Unknown},
		{"close boundary inclusive", "4:00 pm", Postmarket},
		{"just before the close", "3:59 pm", Unknown},
		{"end of postmarket window", "8:00 pm", Postmarket},
		{"late night counts as postmarket", "11:30 pm", Postmarket},
		{"early morning counts as premarket", "2:00 am", Premarket},
		{"midnight", "12 am", Premarket},
		{"noon is ambiguous", "12 pm", Unknown},
		{"24h morning", "09:15", Premarket},
		{"24h evening", "16:30", Postmarket},
		{"24h midday", "13:00", Unknown},
		{"compact morning", "0700", Premarket},
		{"compact evening", "1605", Postmarket},
		{"invalid hour", "25:00", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.raw); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
