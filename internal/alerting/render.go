package alerting

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"holding": formatHolding,
}).Parse(digestHTMLTemplate))

// renderHTML produces the HTML body for the digest email.
func renderHTML(note Notification) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, note); err != nil {
		return "", fmt.Errorf("render digest template: %w", err)
	}
	return buf.String(), nil
}

// renderText produces a readable plain-text version for clients that do not
// render HTML.
func renderText(note Notification) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Earnings alerts for %s\n", note.ScanDay.Format("Monday, 02 Jan 2006")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, alert := range note.Alerts {
		sb.WriteString(alert.Report.Ticker)
		if alert.Report.CompanyName != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", alert.Report.CompanyName))
		}
		sb.WriteString(fmt.Sprintf(" reports on %s", alert.Report.DateKey()))
		if alert.Report.TimeOfDay != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", alert.Report.TimeOfDay))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  Session: %s\n", alert.Report.Session))
		switch alert.DaysUntilReport {
		case 0:
			sb.WriteString("  Today is the last tradable session\n")
		case 1:
			sb.WriteString("  Reports in 1 trading day\n")
		default:
			sb.WriteString(fmt.Sprintf("  Reports in %d trading days\n", alert.DaysUntilReport))
		}
		if alert.Holding != nil {
			sb.WriteString(fmt.Sprintf("  Position: %s\n", formatHolding(alert.Holding)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
