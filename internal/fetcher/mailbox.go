package fetcher

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MailboxOptions parameterise the broker statement mailbox.
type MailboxOptions struct {
	// Address is host:port of the IMAP server, TLS assumed.
	Address  string
	Username string
	Password string
	Folder   string
	// Sender narrows the search to statements from one address. Empty means
	// the newest message in the folder wins.
	Sender string
}

// Mailbox reads current positions from the most recent broker statement in
// an IMAP folder. Statements carry positions either as a CSV attachment or
// as CSV lines in the plain-text body, columns ticker, units, value.
type Mailbox struct {
	opts   MailboxOptions
	logger zerolog.Logger
}

// NewMailbox constructs a mailbox holdings source.
func NewMailbox(opts MailboxOptions, logger zerolog.Logger) *Mailbox {
	if opts.Folder == "" {
		opts.Folder = "INBOX"
	}
	return &Mailbox{
		opts:   opts,
		logger: logger.With().Str("component", "mailbox_fetcher").Logger(),
	}
}

// FetchHoldings connects, finds the newest statement, and parses it. An
// empty folder yields an empty map, not an error: alerts still go out, just
// without exposure attached.
func (m *Mailbox) FetchHoldings(ctx context.Context) (map[string]Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.opts.Address == "" || m.opts.Username == "" {
		return nil, errors.New("mailbox address and username are required")
	}

	c, err := client.DialTLS(m.opts.Address, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to imap server: %w", err)
	}
	defer c.Logout()

	if err := c.Login(m.opts.Username, m.opts.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	mbox, err := c.Select(m.opts.Folder, true)
	if err != nil {
		return nil, fmt.Errorf("select folder %q: %w", m.opts.Folder, err)
	}
	if mbox.Messages == 0 {
		m.logger.Warn().Str("folder", m.opts.Folder).Msg("no statements in folder")
		return map[string]Holding{}, nil
	}

	criteria := imap.NewSearchCriteria()
	if m.opts.Sender != "" {
		criteria.Header.Add("From", m.opts.Sender)
	}

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search statements: %w", err)
	}
	if len(seqNums) == 0 {
		m.logger.Warn().Str("sender", m.opts.Sender).Msg("no statements matched sender")
		return map[string]Holding{}, nil
	}

	// Sequence numbers come back ascending; the last one is the newest.
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums[len(seqNums)-1])

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}, messages)
	}()

	var holdings map[string]Holding
	for msg := range messages {
		if msg == nil {
			continue
		}
		holdings, err = m.parseStatement(msg, section)
		if err != nil {
			m.logger.Warn().Err(err).Uint32("seq", msg.SeqNum).Msg("failed to parse statement")
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch statement: %w", err)
	}

	if holdings == nil {
		holdings = map[string]Holding{}
	}
	m.logger.Info().Int("positions", len(holdings)).Msg("holdings loaded from statement")
	return holdings, nil
}

// parseStatement walks the message parts. A CSV attachment wins over the
// inline body.
func (m *Mailbox) parseStatement(msg *imap.Message, section *imap.BodySectionName) (map[string]Holding, error) {
	r := msg.GetBody(section)
	if r == nil {
		return nil, errors.New("statement has no body section")
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("create mail reader: %w", err)
	}

	var inlineBody []byte
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read statement part: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
				continue
			}
			data, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, fmt.Errorf("read attachment %q: %w", filename, err)
			}
			return parseHoldings(data), nil
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if strings.HasPrefix(contentType, "text/plain") {
				data, err := io.ReadAll(p.Body)
				if err != nil {
					return nil, fmt.Errorf("read statement body: %w", err)
				}
				inlineBody = data
			}
		}
	}

	if inlineBody == nil {
		return nil, errors.New("statement carries neither csv attachment nor text body")
	}
	return parseHoldings(inlineBody), nil
}

var moneyCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// parseHoldings reads ticker, units, value rows. Rows that do not parse,
// header included, are skipped. Later rows for the same ticker win.
func parseHoldings(data []byte) map[string]Holding {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	holdings := make(map[string]Holding)
	rows, err := reader.ReadAll()
	if err != nil {
		return holdings
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(row[0]))
		if ticker == "" {
			continue
		}
		units, err := decimal.NewFromString(moneyCleaner.Replace(row[1]))
		if err != nil {
			continue
		}

		holding := Holding{Ticker: ticker, Units: units}
		if len(row) > 2 {
			if value, err := decimal.NewFromString(moneyCleaner.Replace(row[2])); err == nil {
				holding.Value = value
			}
		}
		holdings[ticker] = holding
	}
	return holdings
}

var _ HoldingsSource = (*Mailbox)(nil)
