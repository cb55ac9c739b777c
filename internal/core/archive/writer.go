package archive

import (
	"context"
	"fmt"

	"missionsync/internal/core/progress"
	perr "missionsync/internal/platform/errors"
)

// DefaultChunkSize bounds a single write against the archive
const DefaultChunkSize = 1000

// Writer is the narrow write handle onto the archive
type Writer interface {
	BulkCreate(ctx context.Context, t *Table, rows []*Row) error
	BulkUpdate(ctx context.Context, t *Table, rows []*Row, fields []string) error
}

// Phase names the half of a write a chunk belongs to
type Phase string

const (
	PhaseCreate Phase = "create"
	PhaseUpdate Phase = "update"
)

// Result counts what reached the archive
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Chunks  int `json:"chunks"`
}

// WriteError describes a chunk the archive refused
// Chunks before it stay committed; nothing after it was sent
type WriteError struct {
	Table     string
	Phase     Phase
	Chunk     int
	Committed int
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s chunk %d failed after %d committed chunks: %v",
		e.Table, e.Phase, e.Chunk, e.Committed, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Chunks splits items into contiguous slices of at most size, in order
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end:end])
	}
	return out
}

// WriteBatches sends the plan's creates then its updates in chunks of chunkSize
// Progress is reported as (chunk, total chunks) after every chunk. There is no retry
// and no rollback: a failure returns an ExternalWrite error wrapping a *WriteError
func WriteBatches(ctx context.Context, w Writer, t *Table, chunkSize int, plan Plan, l progress.Listener) (Result, error) {
	if chunkSize <= 0 {
		return Result{}, perr.InvalidArgf("chunk size must be positive, got %d", chunkSize)
	}
	l = progress.Or(l)

	creates := Chunks(plan.Creates, chunkSize)
	updates := Chunks(plan.Updates, chunkSize)
	total := len(creates) + len(updates)

	var res Result
	fail := func(ph Phase, i int, err error) (Result, error) {
		we := &WriteError{Table: t.Name, Phase: ph, Chunk: i, Committed: res.Chunks, Err: err}
		return res, perr.Wrap(we, perr.ErrorCodeExternalWrite, "archive write failed")
	}

	for i, c := range creates {
		if err := ctx.Err(); err != nil {
			return fail(PhaseCreate, i, err)
		}
		if err := w.BulkCreate(ctx, t, c); err != nil {
			return fail(PhaseCreate, i, err)
		}
		res.Created += len(c)
		res.Chunks++
		l.Progress(fmt.Sprintf("Creating %s rows", t.Name), res.Chunks, total)
	}
	for i, c := range updates {
		if err := ctx.Err(); err != nil {
			return fail(PhaseUpdate, i, err)
		}
		if err := w.BulkUpdate(ctx, t, c, plan.Fields); err != nil {
			return fail(PhaseUpdate, i, err)
		}
		res.Updated += len(c)
		res.Chunks++
		l.Progress(fmt.Sprintf("Updating %s rows", t.Name), res.Chunks, total)
	}
	return res, nil
}
