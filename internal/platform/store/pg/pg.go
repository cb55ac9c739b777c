// Package pg opens the pgx pools behind the mission store and the external archive
package pg

import (
	"context"
	"fmt"
	"time"

	"missionsync/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes one pool
type Config struct {
	// Name labels the pool in errors and SQL log lines, e.g. "pg" or "archive"
	Name     string
	URL      string
	MaxConns int32
	// LogSQL logs every statement; statements slower than Slow log at warn
	LogSQL bool
	Slow   time.Duration
	// Attempts bounds the startup ping loop, default 20
	Attempts    int
	PingTimeout time.Duration
}

// Open builds the pool and waits until the server answers a ping, backing
// off between attempts. The database may still be starting next to us.
func Open(ctx context.Context, cfg Config, log logger.Logger) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", cfg.Name, err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.LogSQL {
		pcfg.ConnConfig.Tracer = NewTracer(log, cfg.Name, cfg.Slow)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	wait := 150 * time.Millisecond
	for i := 1; ; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = pool.Ping(pctx)
		cancel()
		if err == nil {
			return pool, nil
		}
		if i == attempts || ctx.Err() != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: no answer after %d pings: %w", cfg.Name, i, err)
		}
		log.Warn().Str("pool", cfg.Name).Int("attempt", i).Err(err).Msg("database not ready")
		select {
		case <-ctx.Done():
		case <-time.After(wait):
		}
		wait = min(2*wait, 2*time.Second)
	}
}
