package calendar

// marketClosures enumerates full-day NYSE closures by calendar date. The
// table carries 2024 through 2027 and has to be extended ahead of each new
// year; unscheduled closures (such as the January 2025 day of mourning) are
// appended when the exchange announces them. Early-close sessions are not
// tracked here, a half day counts as a full trading day.
var marketClosures = map[string]string{
	// 2024
	"2024-01-01": "New Year's Day",
	"2024-01-15": "Martin Luther King, Jr. Day",
	"2024-02-19": "Washington's Birthday",
	"2024-03-29": "Good Friday",
	"2024-05-27": "Memorial Day",
	"2024-06-19": "Juneteenth National Independence Day",
	"2024-07-04": "Independence Day",
	"2024-09-02": "Labor Day",
	"2024-11-28": "Thanksgiving Day",
	"2024-12-25": "Christmas Day",

	// 2025
	"2025-01-01": "New Year's Day",
	"2025-01-09": "National Day of Mourning for President James E. Carter, Jr.",
	"2025-01-20": "Martin Luther King, Jr. Day",
	"2025-02-17": "Washington's Birthday",
	"2025-04-18": "Good Friday",
	"2025-05-26": "Memorial Day",
	"2025-06-19": "Juneteenth National Independence Day",
	"2025-07-04": "Independence Day",
	"2025-09-01": "Labor Day",
	"2025-11-27": "Thanksgiving Day",
	"2025-12-25": "Christmas Day",

	// 2026
	"2026-01-01": "New Year's Day",
	"2026-01-19": "Martin Luther King, Jr. Day",
	"2026-02-16": "Washington's Birthday",
	"2026-04-03": "Good Friday",
	"2026-05-25": "Memorial Day",
	"2026-06-19": "Juneteenth National Independence Day",
	"2026-07-03": "Independence Day (observed)",
	"2026-09-07": "Labor Day",
	"2026-11-26": "Thanksgiving Day",
	"2026-12-25": "Christmas Day",

	// 2027
	"2027-01-01": "New Year's Day",
	"2027-01-18": "Martin Luther King, Jr. Day",
	"2027-02-15": "Washington's Birthday",
	"2027-03-26": "Good Friday",
	"2027-05-31": "Memorial Day",
	"2027-06-18": "Juneteenth National Independence Day (observed)",
	"2027-07-05": "Independence Day (observed)",
	"2027-09-06": "Labor Day",
	"2027-11-25": "Thanksgiving Day",
	"2027-12-24": "Christmas Day (observed)",
}
