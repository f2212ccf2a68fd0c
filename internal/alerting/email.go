package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"
)

// EmailOptions parameterise the SMTP channel.
type EmailOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

// EmailNotifier sends the digest as an HTML email with a plain-text
// alternative.
type EmailNotifier struct {
	opts   EmailOptions
	logger zerolog.Logger
}

// NewEmailNotifier constructs the SMTP channel.
func NewEmailNotifier(opts EmailOptions, logger zerolog.Logger) *EmailNotifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Port == 0 {
		opts.Port = 587
	}
	return &EmailNotifier{
		opts:   opts,
		logger: logger.With().Str("component", "alert_email").Logger(),
	}
}

// Notify implements Notifier. An empty digest sends nothing.
func (n *EmailNotifier) Notify(ctx context.Context, note Notification) error {
	if len(note.Alerts) == 0 {
		return nil
	}

	html, err := renderHTML(note)
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", n.opts.From)
	message.SetHeader("To", n.opts.To...)
	message.SetHeader("Subject", subjectFor(note))
	message.SetBody("text/plain", renderText(note))
	message.AddAlternative("text/html", html)

	dialer := gomail.NewDialer(n.opts.Host, n.opts.Port, n.opts.Username, n.opts.Password)
	dialer.Timeout = n.opts.Timeout

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	n.logger.Info().
		Str("day", note.ScanDay.Format("2006-01-02")).
		Int("alerts", len(note.Alerts)).
		Msg("alert email sent")
	return nil
}

func subjectFor(note Notification) string {
	if len(note.Alerts) == 1 {
		alert := note.Alerts[0]
		return fmt.Sprintf("Earnings alert: %s reports %s", alert.Report.Ticker, alert.Report.DateKey())
	}
	return fmt.Sprintf("Earnings alerts for %s: %d positions report soon",
		note.ScanDay.Format("2006-01-02"), len(note.Alerts))
}

var _ Notifier = (*EmailNotifier)(nil)
