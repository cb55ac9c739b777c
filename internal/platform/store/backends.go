package store

import (
	"context"
	"time"

	"missionsync/internal/platform/logger"
	"missionsync/internal/platform/store/ch"
	"missionsync/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func openPG(ctx context.Context, name string, c PGConfig, log logger.Logger) (TxRunner, error) {
	p, err := pg.Open(ctx, pg.Config{
		Name:        name,
		URL:         c.URL,
		MaxConns:    c.MaxConns,
		LogSQL:      c.LogSQL,
		Slow:        time.Duration(c.SlowQueryMs) * time.Millisecond,
		Attempts:    c.ConnectRetries,
		PingTimeout: c.PingTimeout,
	}, log)
	if err != nil {
		return nil, err
	}
	return pool{querier{p}, p}, nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := ch.Open(ctx, ch.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, App: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return journal{c}, nil
}

// pgxQuerier is what pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querier struct{ q pgxQuerier }

func (x querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return x.q.Exec(ctx, sql, args...)
}

func (x querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := x.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (x querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return x.q.QueryRow(ctx, sql, args...)
}

type pool struct {
	querier
	p *pgxpool.Pool
}

func (p pool) Tx(ctx context.Context, fn func(RowQuerier) error) error {
	return pgx.BeginFunc(ctx, p.p, func(tx pgx.Tx) error { return fn(querier{tx}) })
}

func (p pool) Ping(ctx context.Context) error { return p.p.Ping(ctx) }
func (p pool) Close() error                   { p.p.Close(); return nil }

// journal adapts the ch client, whose rows close with an error, to Clickhouse
type journal struct{ c *ch.CH }

func (j journal) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	return j.c.Insert(ctx, table, rows)
}

func (j journal) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := j.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (j journal) Ping(ctx context.Context) error { return j.c.Ping(ctx) }
func (j journal) Close() error                   { return j.c.Close() }

type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
