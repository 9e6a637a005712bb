package repository

import "time"

// SQLiteOption configures OpenSQLite.
type SQLiteOption func(*sqliteConfig)

type sqliteConfig struct {
	busyTimeout time.Duration
	journalMode string
	now         func() time.Time
}

// WithBusyTimeout sets how long writers wait on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(c *sqliteConfig) {
		if d > 0 {
			c.busyTimeout = d
		}
	}
}

// WithJournalMode sets the SQLite journal mode, WAL by default.
func WithJournalMode(mode string) SQLiteOption {
	return func(c *sqliteConfig) {
		if mode != "" {
			c.journalMode = mode
		}
	}
}

// WithClock overrides the clock used for updated_at.
func WithClock(now func() time.Time) SQLiteOption {
	return func(c *sqliteConfig) {
		if now != nil {
			c.now = now
		}
	}
}
