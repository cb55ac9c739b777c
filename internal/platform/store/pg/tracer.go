package pg

import (
	"context"
	"strings"
	"time"

	"missionsync/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

// Tracer logs each statement with its duration and the run fields on ctx
type Tracer struct {
	log  logger.Logger
	slow time.Duration
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer logs under component pool. slow <= 0 never promotes to warn.
func NewTracer(log logger.Logger, pool string, slow time.Duration) *Tracer {
	return &Tracer{log: log.With().Str("component", pool).Logger(), slow: slow}
}

type started struct {
	sql  string
	args []any
	at   time.Time
}

type startedKey struct{}

// TraceQueryStart implements pgx.QueryTracer
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startedKey{}, started{sql: d.SQL, args: d.Args, at: time.Now()})
}

// TraceQueryEnd implements pgx.QueryTracer
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(startedKey{}).(started)
	if !ok {
		return
	}
	took := time.Since(st.at)
	log := logger.From(ctx, t.log)
	evt := log.Debug()
	switch {
	case d.Err != nil:
		evt = log.Error().Err(d.Err)
	case t.slow > 0 && took >= t.slow:
		evt = log.Warn().Bool("slow", true)
	}
	evt.Dur("took", took).
		Str("sql", strings.Join(strings.Fields(st.sql), " ")).
		Int("args", len(st.args)).
		Int64("rows", d.CommandTag.RowsAffected()).
		Msg("sql")
}
