// Package history records VAT lookups in Postgres.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/timeutil"
)

type Source string

const (
	SourceOffline Source = "offline"
	SourceVIES    Source = "vies"
	SourceCache   Source = "cache"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one lookup. VATNumber is the sanitized body without prefix.
type Entry struct {
	ID           uuid.UUID         `json:"id"`
	Jurisdiction jurisdiction.Code `json:"jurisdiction"`
	VATNumber    string            `json:"vat_number"`
	Valid        bool              `json:"valid"`
	Source       Source            `json:"source"`
	Name         string            `json:"name,omitempty"`
	RequestID    string            `json:"request_id,omitempty"`
	CheckedAt    time.Time         `json:"checked_at"`
}

const schema = `CREATE TABLE IF NOT EXISTS vat_lookups (
	id           UUID PRIMARY KEY,
	jurisdiction TEXT NOT NULL,
	vat_number   TEXT NOT NULL,
	valid        BOOLEAN NOT NULL,
	source       TEXT NOT NULL,
	name         TEXT NOT NULL DEFAULT '',
	request_id   TEXT NOT NULL DEFAULT '',
	checked_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vat_lookups_number_idx ON vat_lookups (jurisdiction, vat_number, checked_at DESC)`

const insertEntry = `INSERT INTO vat_lookups (id, jurisdiction, vat_number, valid, source, name, request_id, checked_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const selectRecent = `SELECT id, jurisdiction, vat_number, valid, source, name, request_id, checked_at
FROM vat_lookups
WHERE jurisdiction = $1 AND vat_number = $2
ORDER BY checked_at DESC
LIMIT $3`

type Store struct {
	db    Executor
	clock timeutil.Clock
}

type Option func(*Store)

func WithClock(c timeutil.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

func New(db Executor, opts ...Option) *Store {
	s := &Store{db: db, clock: timeutil.Default}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates the table and index if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	return nil
}

// Record stores e, filling ID and CheckedAt when they are zero.
// A duplicate ID is reported as a permanent error.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CheckedAt.IsZero() {
		e.CheckedAt = s.clock.Now()
	}
	_, err := s.db.ExecContext(ctx, insertEntry,
		e.ID, string(e.Jurisdiction), e.VATNumber, e.Valid, string(e.Source), e.Name, e.RequestID, e.CheckedAt,
	)
	if err != nil {
		err = fmt.Errorf("history: record: %w", err)
		if isUniqueViolation(err) {
			return Entry{}, retry.Permanent(err)
		}
		return Entry{}, err
	}
	return e, nil
}

// Recent returns the latest lookups of one number, newest first.
func (s *Store) Recent(ctx context.Context, code jurisdiction.Code, number string, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	rows, err := s.db.QueryContext(ctx, selectRecent, string(code), number, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e          Entry
			jc, source string
		)
		if err := rows.Scan(&e.ID, &jc, &e.VATNumber, &e.Valid, &source, &e.Name, &e.RequestID, &e.CheckedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Jurisdiction = jurisdiction.Code(jc)
		e.Source = Source(source)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return out, nil
}
