// Package changeset stages record writes per entity kind before they are flushed
// through a bulk update, and cascades a field value through a declared record graph
package changeset

import (
	"context"
	"fmt"
	"sort"

	"missionsync/internal/core/progress"
)

// Kind names an entity kind, e.g. "event" or "discrete_header"
type Kind string

// Record is the surface every stageable entity exposes
// Set must reject fields the record does not carry
type Record interface {
	Kind() Kind
	PK() int64
	Has(field string) bool
	Get(field string) any
	Set(field string, v any) error
}

// Fields is a set of field names
type Fields map[string]struct{}

// NewFields builds a set from names
func NewFields(names ...string) Fields {
	f := make(Fields, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

// Has reports membership
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Sorted returns the names in lexical order
func (f Fields) Sorted() []string {
	out := make([]string, 0, len(f))
	for n := range f {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (f Fields) clone() Fields {
	c := make(Fields, len(f))
	for n := range f {
		c[n] = struct{}{}
	}
	return c
}

// Entry holds the queued records of one kind and the union of their changed fields
type Entry struct {
	Records map[int64]Record
	Fields  Fields
}

// Sorted returns the queued records ordered by primary key
func (e Entry) Sorted() []Record {
	out := make([]Record, 0, len(e.Records))
	for _, r := range e.Records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PK() < out[j].PK() })
	return out
}

func (e Entry) clone() Entry {
	recs := make(map[int64]Record, len(e.Records))
	for pk, r := range e.Records {
		recs[pk] = r
	}
	return Entry{Records: recs, Fields: e.Fields.clone()}
}

// ChangeSet maps an entity kind to its staged entry
// methods never mutate the receiver; they return a new value
type ChangeSet map[Kind]Entry

// Empty reports whether nothing is staged
func (cs ChangeSet) Empty() bool {
	for _, e := range cs {
		if len(e.Records) > 0 {
			return false
		}
	}
	return true
}

// Kinds returns the staged kinds in lexical order
func (cs ChangeSet) Kinds() []Kind {
	out := make([]Kind, 0, len(cs))
	for k := range cs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len counts staged records across kinds
func (cs ChangeSet) Len() int {
	n := 0
	for _, e := range cs {
		n += len(e.Records)
	}
	return n
}

// Clone returns a copy whose maps can be changed independently
// records themselves are shared
func (cs ChangeSet) Clone() ChangeSet {
	out := make(ChangeSet, len(cs))
	for k, e := range cs {
		out[k] = e.clone()
	}
	return out
}

// Track returns a copy of cs with rec queued and fields recorded as changed
// tracking with no fields still queues the record for flushing
func (cs ChangeSet) Track(rec Record, fields ...string) ChangeSet {
	out := cs.Clone()
	out.track(rec, fields...)
	return out
}

// Combine folds incoming into base and returns the result; neither input is changed
//
// Kinds only in incoming are copied whole. For shared kinds the field sets are
// unioned, unseen records are added, and records already staged in base take the
// incoming entry's field values. Callers only combine single-field propagation
// results, so two incoming sets never disagree on the same (record, field);
// if they did, the last one combined would win
func Combine(base, incoming ChangeSet) (ChangeSet, error) {
	out := base.Clone()
	if err := out.combine(incoming); err != nil {
		return nil, err
	}
	return out, nil
}

// track queues rec in place; cs must own its entries
func (cs ChangeSet) track(rec Record, fields ...string) {
	e, ok := cs[rec.Kind()]
	if !ok {
		e = Entry{Records: map[int64]Record{}, Fields: Fields{}}
	}
	e.Records[rec.PK()] = rec
	for _, f := range fields {
		e.Fields[f] = struct{}{}
	}
	cs[rec.Kind()] = e
}

// combine folds incoming into cs in place; incoming is not changed
func (cs ChangeSet) combine(incoming ChangeSet) error {
	for kind, in := range incoming {
		cur, ok := cs[kind]
		if !ok {
			cs[kind] = in.clone()
			continue
		}
		for f := range in.Fields {
			cur.Fields[f] = struct{}{}
		}
		for pk, rec := range in.Records {
			existing, seen := cur.Records[pk]
			if !seen {
				cur.Records[pk] = rec
				continue
			}
			if existing == rec {
				continue
			}
			for f := range in.Fields {
				if !rec.Has(f) {
					continue
				}
				if err := existing.Set(f, rec.Get(f)); err != nil {
					return fmt.Errorf("combine %s/%d field %s: %w", kind, pk, f, err)
				}
			}
		}
		cs[kind] = cur
	}
	return nil
}

// Accumulator folds many staged writes into one ChangeSet without copying it per fold
// the zero value is ready to use
type Accumulator struct {
	cs ChangeSet
}

// Track queues rec with fields, like ChangeSet.Track
func (a *Accumulator) Track(rec Record, fields ...string) {
	if a.cs == nil {
		a.cs = ChangeSet{}
	}
	a.cs.track(rec, fields...)
}

// Combine folds incoming in, like Combine; incoming is not changed
func (a *Accumulator) Combine(incoming ChangeSet) error {
	if a.cs == nil {
		a.cs = ChangeSet{}
	}
	return a.cs.combine(incoming)
}

// Result hands over the accumulated set and resets the accumulator
func (a *Accumulator) Result() ChangeSet {
	out := a.cs
	if out == nil {
		out = ChangeSet{}
	}
	a.cs = nil
	return out
}

// Flusher persists staged records of one kind with a shared field list
type Flusher interface {
	BulkUpdate(ctx context.Context, kind Kind, recs []Record, fields []string) error
}

// Flush writes every staged kind through f in kind order, reporting one milestone per kind
func Flush(ctx context.Context, f Flusher, cs ChangeSet, l progress.Listener) error {
	l = progress.Or(l)
	kinds := cs.Kinds()
	for i, k := range kinds {
		e := cs[k]
		if len(e.Records) == 0 {
			continue
		}
		if err := f.BulkUpdate(ctx, k, e.Sorted(), e.Fields.Sorted()); err != nil {
			return fmt.Errorf("flush %s: %w", k, err)
		}
		l.Progress(fmt.Sprintf("Updated %d %s records", len(e.Records), k), i+1, len(kinds))
	}
	return nil
}
