// Package store opens the three backends missionsync talks to: the local
// mission database, the external archive and the ClickHouse run journal.
// Repos see them only through the small seams below.
package store

import (
	"context"
	"errors"
	"fmt"

	"missionsync/internal/platform/logger"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports what a statement changed
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier runs SQL against a pool or an open transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also run fn in one transaction.
// fn's error rolls the transaction back.
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the journal seam. Insert rows follow the column order named in table.
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports whether a backend answers
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends are configured; the others stay nil
type Store struct {
	Log     logger.Logger
	PG      TxRunner
	Archive TxRunner
	CH      Clickhouse
}

// Option adjusts Open
type Option func(*Store)

// WithLogger sets the logger SQL tracing writes to
func WithLogger(l logger.Logger) Option { return func(s *Store) { s.Log = l } }

// Open connects every enabled backend. On failure the backends opened so far are closed.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Get()}
	for _, o := range opts {
		o(s)
	}

	var err error
	if cfg.PG.Enabled {
		s.PG, err = openPG(ctx, "pg", cfg.PG, s.Log)
	}
	if err == nil && cfg.Archive.Enabled {
		s.Archive, err = openPG(ctx, "archive", cfg.Archive, s.Log)
	}
	if err == nil && cfg.CH.Enabled {
		s.CH, err = openCH(ctx, cfg)
	}
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

// Guard pings each configured backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	var errs []error
	for name, b := range map[string]any{"pg": s.PG, "archive": s.Archive, "ch": s.CH} {
		p, ok := b.(Pinger)
		if !ok || b == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend
func (s *Store) Close(context.Context) error {
	var errs []error
	for _, b := range []any{s.CH, s.Archive, s.PG} {
		if c, ok := b.(interface{ Close() error }); ok && b != nil {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
