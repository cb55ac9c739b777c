package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	perr "missionsync/internal/platform/errors"
)

// intRows yields one int column per row
type intRows struct {
	vals   []int
	i      int
	err    error
	closed bool
}

func (r *intRows) Next() bool { r.i++; return r.i <= len(r.vals) }
func (r *intRows) Scan(dest ...any) error {
	*dest[0].(*int) = r.vals[r.i-1]
	return nil
}
func (r *intRows) Err() error { return r.err }
func (r *intRows) Close()     { r.closed = true }

type queryOnly struct {
	RowQuerier
	rows *intRows
	err  error
	sql  string
	args []any
}

func (q *queryOnly) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	q.sql, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func scanInt(r Row) (int, error) {
	var n int
	return n, r.Scan(&n)
}

func TestOne(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		vals []int
		want int
		code perr.ErrorCode
	}{
		{name: "single", vals: []int{5}, want: 5},
		{name: "none", vals: nil, code: perr.ErrorCodeNotFound},
		{name: "two", vals: []int{1, 2}, code: perr.ErrorCodeDB},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := &queryOnly{rows: &intRows{vals: c.vals}}
			got, err := One(ctx, q, scanInt, "select n from t where id = $1", 9)
			if c.code != perr.ErrorCodeUnknown {
				if !perr.IsCode(err, c.code) {
					t.Fatalf("err = %v, want %v", err, c.code)
				}
				return
			}
			if err != nil || got != c.want {
				t.Fatalf("got %d, %v", got, err)
			}
			if !q.rows.closed || q.args[0] != 9 {
				t.Fatalf("rows closed=%v args=%v", q.rows.closed, q.args)
			}
		})
	}
}

func TestMany(t *testing.T) {
	ctx := context.Background()
	got, err := Many(ctx, &queryOnly{rows: &intRows{vals: []int{1, 2, 3}}}, scanInt, "q")
	if err != nil || !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("got %v, %v", got, err)
	}
	got, err = Many(ctx, &queryOnly{rows: &intRows{}}, scanInt, "q")
	if err != nil || len(got) != 0 {
		t.Fatalf("empty result: %v, %v", got, err)
	}
}

func TestMany_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	if _, err := Many(ctx, &queryOnly{err: boom}, scanInt, "q"); !errors.Is(err, boom) {
		t.Fatalf("query error lost: %v", err)
	}
	if _, err := Many(ctx, &queryOnly{rows: &intRows{err: boom}}, scanInt, "q"); !errors.Is(err, boom) {
		t.Fatalf("rows error lost: %v", err)
	}
	failing := func(Row) (int, error) { return 0, boom }
	rows := &intRows{vals: []int{1}}
	if _, err := Many(ctx, &queryOnly{rows: rows}, failing, "q"); !errors.Is(err, boom) || !rows.closed {
		t.Fatalf("scan error: %v closed=%v", err, rows.closed)
	}
}
