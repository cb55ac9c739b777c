// Package domain defines the run journal: one append-only record per merge or sync
package domain

import (
	"context"
	"time"

	perr "missionsync/internal/platform/errors"
)

// Op names the operation a run performed
type Op string

const (
	// OpMerge is a mission merge
	OpMerge Op = "merge"
	// OpSync is an archive synchronisation
	OpSync Op = "sync"
)

// Run is one journaled operation
type Run struct {
	RunID      string    `json:"run_id"`
	Op         Op        `json:"op"`
	Mission    int64     `json:"mission"`
	Source     int64     `json:"source,omitempty"`
	Descriptor string    `json:"descriptor"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Chunks     int       `json:"chunks"`
	OK         bool      `json:"ok"`
	ErrorCode  string    `json:"error_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Finish stamps the outcome of the run
func (r *Run) Finish(at time.Time, err error) {
	r.FinishedAt = at.UTC()
	r.OK = err == nil
	if err != nil {
		r.ErrorCode = perr.CodeOf(err).String()
		r.Error = err.Error()
	}
}

// Duration is the wall time of a finished run
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// WriterPort appends runs to the journal
type WriterPort interface {
	Record(ctx context.Context, r Run) error
}

// QueryPort reads recent runs for a mission
type QueryPort interface {
	Recent(ctx context.Context, mission int64, limit int) ([]Run, error)
}
