package repo

import (
	"context"
	"strings"
	"testing"
	"time"

	"missionsync/internal/platform/store"
	dom "missionsync/internal/services/journal/domain"
)

type fakeCH struct {
	table string
	rows  [][]any
	sql   string
	args  []any
	out   *fakeRows
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table = table
	f.rows = rows
	return nil
}

func (f *fakeCH) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.sql, f.args = sql, args
	return f.out, nil
}

func (f *fakeCH) Close() error { return nil }

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}
func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int64:
			*p = row[i].(int64)
		case *uint32:
			*p = row[i].(uint32)
		case *bool:
			*p = row[i].(bool)
		case *time.Time:
			*p = row[i].(time.Time)
		}
	}
	return nil
}

func TestInsert_ColumnOrder(t *testing.T) {
	f := &fakeCH{}
	s := NewCH(f)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	run := dom.Run{
		RunID: "r1", Op: dom.OpSync, Mission: 5, Descriptor: "18HU24001",
		Created: 3, Updated: 2, Chunks: 2, OK: true, StartedAt: at, FinishedAt: at,
	}
	if err := s.Insert(context.Background(), run); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !strings.HasPrefix(f.table, Table+" (run_id, op,") {
		t.Fatalf("table = %q", f.table)
	}
	if len(f.rows) != 1 || len(f.rows[0]) != 13 {
		t.Fatalf("rows = %v", f.rows)
	}
	if f.rows[0][1] != "sync" || f.rows[0][5] != uint32(3) || f.rows[0][8] != true {
		t.Fatalf("row = %v", f.rows[0])
	}
	if err := s.Insert(context.Background()); err != nil || len(f.rows) != 1 {
		t.Fatalf("empty insert should be a no-op")
	}
}

func TestRecent_Scans(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeCH{out: &fakeRows{data: [][]any{{
		"r1", "merge", int64(5), int64(6), "18HU24001",
		uint32(0), uint32(4), uint32(0), false, "descriptor_mismatch", "boom", at, at.Add(time.Second),
	}}}}
	runs, err := NewCH(f).Recent(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %v", runs)
	}
	r := runs[0]
	if r.Op != dom.OpMerge || r.Source != 6 || r.Updated != 4 || r.OK || r.ErrorCode != "descriptor_mismatch" {
		t.Fatalf("run = %+v", r)
	}
	if len(f.args) != 3 || f.args[2] != 10 {
		t.Fatalf("args = %v", f.args)
	}
}
