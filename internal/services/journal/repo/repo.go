// Package repo provides the ClickHouse journal repository
package repo

import (
	"context"
	"time"

	"missionsync/internal/platform/store"
	dom "missionsync/internal/services/journal/domain"
)

// Table is the journal table with its insert column order
const (
	Table   = "missionsync.sync_runs"
	columns = "(run_id, op, mission_id, source_id, descriptor, created, updated, chunks, ok, error_code, error, started_at, finished_at)"
)

// Storage defines the journal repository
type Storage interface {
	Insert(ctx context.Context, runs ...dom.Run) error
	Recent(ctx context.Context, mission int64, limit int) ([]dom.Run, error)
}

type chRepo struct{ ch store.Clickhouse }

// NewCH returns a journal repo over the ClickHouse seam
func NewCH(ch store.Clickhouse) Storage { return &chRepo{ch: ch} }

// Insert appends runs in one batch
func (s *chRepo) Insert(ctx context.Context, runs ...dom.Run) error {
	if len(runs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []any{
			r.RunID, string(r.Op), r.Mission, r.Source, r.Descriptor,
			uint32(r.Created), uint32(r.Updated), uint32(r.Chunks), r.OK,
			r.ErrorCode, r.Error, r.StartedAt.UTC(), r.FinishedAt.UTC(),
		})
	}
	return s.ch.Insert(ctx, Table+" "+columns, rows)
}

// Recent lists the newest runs for a mission, newest first
func (s *chRepo) Recent(ctx context.Context, mission int64, limit int) ([]dom.Run, error) {
	rs, err := s.ch.Query(ctx, `
		SELECT toString(run_id), op, mission_id, source_id, descriptor,
		       created, updated, chunks, ok, error_code, error, started_at, finished_at
		FROM `+Table+`
		WHERE mission_id = ? OR source_id = ?
		ORDER BY started_at DESC
		LIMIT ?`,
		mission, mission, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []dom.Run
	for rs.Next() {
		var (
			r                        dom.Run
			op                       string
			created, updated, chunks uint32
			started, finished        time.Time
		)
		if err := rs.Scan(
			&r.RunID, &op, &r.Mission, &r.Source, &r.Descriptor,
			&created, &updated, &chunks, &r.OK, &r.ErrorCode, &r.Error, &started, &finished,
		); err != nil {
			return nil, err
		}
		r.Op = dom.Op(op)
		r.Created, r.Updated, r.Chunks = int(created), int(updated), int(chunks)
		r.StartedAt, r.FinishedAt = started.UTC(), finished.UTC()
		out = append(out, r)
	}
	return out, rs.Err()
}
