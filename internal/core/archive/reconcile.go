package archive

import (
	"fmt"
	"sort"

	"missionsync/internal/core/progress"
	perr "missionsync/internal/platform/errors"
)

// Plan is the outcome of reconciling one row family
// Fields is the sorted union of columns changed on updated rows; the archive's bulk
// update takes one column list per batch so every listed column is written for every row
type Plan struct {
	Creates []*Row
	Updates []*Row
	Fields  []string
}

// Empty reports whether there is nothing to write
func (p Plan) Empty() bool { return len(p.Creates) == 0 && len(p.Updates) == 0 }

// Tracker applies SetIfDifferent to one row and counts the columns that moved
// the first error sticks and later sets are skipped
type Tracker struct {
	row     *Row
	changed []string
	err     error
}

// Set writes v into the column when it differs
func (t *Tracker) Set(name string, v any) {
	if t.err != nil {
		return
	}
	moved, err := SetIfDifferent(t.row, name, v)
	if err != nil {
		t.err = err
		return
	}
	if moved {
		t.changed = append(t.changed, name)
	}
}

// Row exposes the row being filled
func (t *Tracker) Row() *Row { return t.row }

// Changed is the number of columns that moved so far
func (t *Tracker) Changed() int { return len(t.changed) }

// Err returns the first coercion failure
func (t *Tracker) Err() error { return t.err }

// Reconciler diffs local objects of one family against rows already in the archive
//
// Key identifies the archive row an object maps to. Fill writes the family's explicit
// column list through the tracker. When UploaderField is set, the uploader is stamped
// on created rows and on updated rows that changed
type Reconciler[T any, K comparable] struct {
	Table         *Table
	Uploader      string
	UploaderField string
	Key           func(T) K
	Fill          func(obj T, t *Tracker)
	Listener      progress.Listener
}

// Reconcile walks objs in order and returns the rows to create and update
// existing may be nil on a first sync and is not modified, but the rows it holds are
//
// A fresh key always yields a create. A known key yields an update only when at least
// one column moved; otherwise the object is dropped silently. Objects sharing a key
// fill the same row, so it is queued once
func (r *Reconciler[T, K]) Reconcile(objs []T, existing map[K]*Row) (Plan, error) {
	if r.Table == nil || r.Key == nil || r.Fill == nil {
		return Plan{}, perr.InvalidArgf("reconciler is missing table, key or fill")
	}
	l := progress.Or(r.Listener)
	msg := fmt.Sprintf("Compiling %s rows", r.Table.Name)

	var (
		plan    Plan
		pending = make(map[K]*Row)
		queued  = make(map[*Row]bool)
		fields  = make(map[string]struct{})
	)
	for i, obj := range objs {
		k := r.Key(obj)
		row, found := existing[k]
		if !found {
			if row = pending[k]; row == nil {
				row = NewRow(r.Table, 0)
				pending[k] = row
				plan.Creates = append(plan.Creates, row)
			}
		}

		t := &Tracker{row: row}
		r.Fill(obj, t)
		if t.Changed() > 0 || !found {
			r.stamp(t)
		}
		if err := t.Err(); err != nil {
			werr := perr.Wrapf(err, perr.CodeOf(err), "reconcile %s %v", r.Table.Name, k)
			if e, ok := perr.As(err); ok && e.Field() != "" {
				werr = perr.WithField(werr, e.Field())
			}
			return Plan{}, werr
		}

		if found && t.Changed() > 0 {
			if !queued[row] {
				queued[row] = true
				plan.Updates = append(plan.Updates, row)
			}
			for _, f := range t.changed {
				fields[f] = struct{}{}
			}
		}
		l.Progress(msg, i+1, len(objs))
	}

	plan.Fields = make([]string, 0, len(fields))
	for f := range fields {
		plan.Fields = append(plan.Fields, f)
	}
	sort.Strings(plan.Fields)
	return plan, nil
}

func (r *Reconciler[T, K]) stamp(t *Tracker) {
	if r.UploaderField != "" && r.Uploader != "" {
		t.Set(r.UploaderField, r.Uploader)
	}
}
