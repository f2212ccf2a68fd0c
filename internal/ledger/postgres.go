package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"earnings-alerts/internal/engine"
)

// ErrNotConfigured indicates the ledger pool was not initialised.
var ErrNotConfigured = errors.New("ledger: pool not configured")

const (
	// NULLS NOT DISTINCT makes two AnyOffset records for the same report
	// collide, which is exactly the duplicate the ledger must prevent.
	// Requires PostgreSQL 15.
	createSentAlertsSQL = `CREATE TABLE IF NOT EXISTS sent_alerts (
        id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        ticker TEXT NOT NULL,
        report_date DATE NOT NULL,
        threshold_offset INT,
        sent_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        UNIQUE NULLS NOT DISTINCT (ticker, report_date, threshold_offset)
    );`

	insertSentAlertSQL = `INSERT INTO sent_alerts (
        ticker,
        report_date,
        threshold_offset,
        sent_at
    ) VALUES (
        $1,$2,$3,$4
    )
    ON CONFLICT (ticker, report_date, threshold_offset) DO NOTHING;`

	sentAlertExistsSQL = `SELECT EXISTS (
        SELECT 1 FROM sent_alerts
        WHERE ticker = $1
          AND report_date = $2
          AND threshold_offset IS NOT DISTINCT FROM $3
    );`

	listSentAlertsSQL = `SELECT
        ticker,
        report_date,
        threshold_offset,
        sent_at
    FROM sent_alerts
    ORDER BY sent_at;`

	deleteSentAlertsBeforeSQL = `DELETE FROM sent_alerts WHERE sent_at < $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// PostgresLedger stores sent alerts in PostgreSQL, for deployments where
// several replicas share one ledger.
type PostgresLedger struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresLedger wires a pgx pool into a ledger.
func NewPostgresLedger(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresLedger {
	return &PostgresLedger{
		pool:   pool,
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// Close releases the underlying pool resources.
func (l *PostgresLedger) Close() {
	if l == nil || l.pool == nil {
		return
	}
	l.pool.Close()
}

func (l *PostgresLedger) getPool() (*pgxpool.Pool, error) {
	if l == nil || l.pool == nil {
		return nil, ErrNotConfigured
	}
	return l.pool, nil
}

// EnsureSchema creates the sent_alerts table when it does not exist yet.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	pool, err := l.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, createSentAlertsSQL); execErr != nil {
		return fmt.Errorf("ensure sent_alerts schema: %w", execErr)
	}
	return nil
}

// Records returns every stored record ordered by send time.
func (l *PostgresLedger) Records(ctx context.Context) ([]Record, error) {
	pool, err := l.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listSentAlertsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list sent alerts: %w", queryErr)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			ticker     string
			reportDate time.Time
			offset     sql.NullInt32
			sentAt     time.Time
		)
		if err := rows.Scan(&ticker, &reportDate, &offset, &sentAt); err != nil {
			return nil, err
		}

		rec := Record{
			Ticker:     ticker,
			ReportDate: reportDate.Format("2006-01-02"),
			SentAt:     sentAt,
		}
		if offset.Valid {
			value := int(offset.Int32)
			rec.ThresholdOffset = &value
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

// HasBeenSent reports whether the key is present.
func (l *PostgresLedger) HasBeenSent(ctx context.Context, ticker, reportDate string, offset int) (bool, error) {
	pool, err := l.getPool()
	if err != nil {
		return false, err
	}

	var exists bool
	if scanErr := pool.QueryRow(ctx, sentAlertExistsSQL, strings.ToUpper(ticker), reportDate, offsetParam(offset)).Scan(&exists); scanErr != nil {
		return false, fmt.Errorf("check sent alert: %w", scanErr)
	}
	return exists, nil
}

// MarkSent inserts the key; an existing key is left untouched.
func (l *PostgresLedger) MarkSent(ctx context.Context, ticker, reportDate string, offset int) error {
	pool, err := l.getPool()
	if err != nil {
		return err
	}

	if _, execErr := pool.Exec(ctx, insertSentAlertSQL, strings.ToUpper(ticker), reportDate, offsetParam(offset), time.Now().UTC()); execErr != nil {
		return fmt.Errorf("mark alert sent: %w", execErr)
	}
	return nil
}

// FilterUnsent returns the due alerts without a record under offset, in
// input order.
func (l *PostgresLedger) FilterUnsent(ctx context.Context, due []engine.AlertDue, offset int) ([]engine.AlertDue, error) {
	unsent := make([]engine.AlertDue, 0, len(due))
	for _, d := range due {
		sent, err := l.HasBeenSent(ctx, d.Report.Ticker, d.Report.DateKey(), offset)
		if err != nil {
			return nil, err
		}
		if sent {
			l.logger.Debug().
				Str("ticker", d.Report.Ticker).
				Str("report_date", d.Report.DateKey()).
				Msg("alert already sent, skipped")
			continue
		}
		unsent = append(unsent, d)
	}
	return unsent, nil
}

// CleanupOld drops records sent more than keepDays days before now.
func (l *PostgresLedger) CleanupOld(ctx context.Context, keepDays int) (int, error) {
	pool, err := l.getPool()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)
	cmdTag, execErr := pool.Exec(ctx, deleteSentAlertsBeforeSQL, cutoff)
	if execErr != nil {
		return 0, fmt.Errorf("cleanup sent alerts: %w", execErr)
	}
	return int(cmdTag.RowsAffected()), nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a
// release func. It pins a pool connection for the lifetime of the lock.
func (l *PostgresLedger) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := l.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; the session drop releases it anyway
		}
		conn.Release()
	}
	return unlock, true, nil
}

// offsetParam maps AnyOffset to SQL NULL.
func offsetParam(offset int) interface{} {
	if offset == AnyOffset {
		return nil
	}
	return offset
}

var (
	_ Ledger         = (*PostgresLedger)(nil)
	_ AdvisoryLocker = (*PostgresLedger)(nil)
)
