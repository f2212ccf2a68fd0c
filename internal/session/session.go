// Package session classifies the free-form "time of report" annotations that
// accompany earnings announcements ("before market open", "8:00 am ET",
// "after the bell") into a coarse trading-session category.
package session

import (
	"regexp"
	"strconv"
	"strings"
)

// Category is the coarse position of a report relative to the regular
// trading session.
type Category string

const (
	// Premarket covers reports published before the opening bell.
	Premarket Category = "premarket"
	// Postmarket covers reports published after the closing bell.
	Postmarket Category = "postmarket"
	// Unknown covers annotations that carry no usable session signal.
	Unknown Category = "unknown"
)

// Minute-of-day bounds of the extended sessions. The premarket window runs
// 04:00 to 09:30, the postmarket window 16:00 to 20:00, both ends inclusive.
const (
	premarketStartMinute  = 4 * 60
	premarketEndMinute    = 9*60 + 30
	postmarketStartMinute = 16 * 60
	postmarketEndMinute   = 20 * 60
)

// Wording hints, matched as lowercase substrings. The premarket list is
// checked first, so a string mentioning both sessions resolves to the
// earlier one.
var (
	premarketHints = []string{
		"premarket",
		"pre-market",
		"pre market",
		"before market open",
		"before open",
		"before the bell",
		"bmo",
		"pre",
	}
	postmarketHints = []string{
		"postmarket",
		"post-market",
		"post market",
		"after market close",
		"after close",
		"after the bell",
		"after hours",
		"after-hours",
		"amc",
		"post",
	}
)

var (
	meridiemPattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?`)
	clock24Pattern  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	compactPattern  = regexp.MustCompile(`\b(\d{4})\b`)
)

// Classify maps a raw session annotation to a Category. Wording hints take
// precedence over clock times; anything that matches neither comes back as
// Unknown. Classify never fails, garbage input is simply Unknown.
func Classify(raw string) Category {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Unknown
	}

	for _, hint := range premarketHints {
		if strings.Contains(text, hint) {
			return Premarket
		}
	}
	for _, hint := range postmarketHints {
		if strings.Contains(text, hint) {
			return Postmarket
		}
	}

	if minute, ok := minuteOfDay(text); ok {
		return categoryForMinute(minute)
	}
	return Unknown
}

// minuteOfDay extracts a clock time from text and returns it as minutes
// since midnight. Formats are tried in order: 12-hour with meridiem
// ("8:00 am", "4pm"), 24-hour with colon ("16:05"), compact four digits
// ("0930").
func minuteOfDay(text string) (int, bool) {
	if m := meridiemPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute <= 59 {
			if hour == 12 {
				hour = 0
			}
			if m[3] == "p" {
				hour += 12
			}
			return hour*60 + minute, true
		}
	}

	if m := clock24Pattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return hour*60 + minute, true
		}
	}

	if m := compactPattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.Atoi(m[1])
		hour, minute := value/100, value%100
		if hour <= 23 && minute <= 59 {
			return hour*60 + minute, true
		}
	}

	return 0, false
}

// categoryForMinute bands a minute-of-day into a session. Times before the
// premarket window count as premarket and times after the postmarket window
// count as postmarket; only the regular session in between is ambiguous.
func categoryForMinute(minute int) Category {
	switch {
	case minute >= postmarketStartMinute && minute <= postmarketEndMinute:
		return Postmarket
	case minute >= premarketStartMinute && minute <= premarketEndMinute:
		return Premarket
	case minute < premarketStartMinute:
		return Premarket
	case minute > postmarketEndMinute:
		return Postmarket
	default:
		return Unknown
	}
}
