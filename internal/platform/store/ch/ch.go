// Package ch is the ClickHouse client behind the run journal
package ch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"missionsync/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config for Open. Role is the binary's role ("api", "merge" or "sync") and App its name.
type Config struct {
	URL  string
	Role string
	App  string
}

// Rows is a ClickHouse result set
type Rows = driver.Rows

// CH is a native protocol connection
type CH struct{ conn driver.Conn }

// Open parses the DSN and tags the connection with ClientInfo. Dialing is lazy.
func Open(_ context.Context, cfg Config) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = ClientInfo(cfg.App, cfg.Role)
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &CH{conn: conn}, nil
}

// ClientInfo names this process in system.query_log
func ClientInfo(app, role string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	type product = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []product{
		{Name: app, Version: role},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: version.Commit()},
		{Name: "host", Version: host},
	}}
}

// Insert sends rows to table in one batch. table may carry a column list,
// e.g. "db.t (a, b)"; rows follow that order.
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("ch: append %s row %d: %w", table, i, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Query runs sql with positional ? args
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks the server answers
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close is safe on a nil client
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
