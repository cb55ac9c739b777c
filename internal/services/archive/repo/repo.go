// Package repo provides the Postgres handle onto the external archive
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"missionsync/internal/core/archive"
	"missionsync/internal/modkit/repokit"
	perr "missionsync/internal/platform/errors"

	"github.com/shopspring/decimal"
)

// maxParams stays under the Postgres bind parameter limit of 65535
const maxParams = 60000

// Storage is the narrow read and write surface the sync pipeline uses
type Storage interface {
	archive.Writer

	// LoadExisting reads every row of t already submitted for a mission descriptor, ordered by PK
	LoadExisting(ctx context.Context, t *archive.Table, descriptor string) ([]*archive.Row, error)
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for the archive database
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// MissionColumn is the column LoadExisting filters on; both archive tables carry it
const MissionColumn = "mission_descriptor"

// LoadExisting implements Storage
func (s *pg) LoadExisting(ctx context.Context, t *archive.Table, descriptor string) ([]*archive.Row, error) {
	if _, ok := t.Field(MissionColumn); !ok {
		return nil, perr.InvalidArgf("table %s has no %s column", t.Name, MissionColumn)
	}
	cols := t.Columns()
	sql := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s",
		t.PK, strings.Join(cols, ", "), t.Name, MissionColumn, t.PK)

	rs, err := s.q.Query(ctx, sql, descriptor)
	if err != nil {
		return nil, perr.FromPostgresf(err, "load %s rows of %s", t.Name, descriptor)
	}
	defer rs.Close()

	var out []*archive.Row
	for rs.Next() {
		var pk int64
		dest := make([]any, 0, len(cols)+1)
		dest = append(dest, &pk)
		vals := make([]func() any, len(t.Fields))
		for i, f := range t.Fields {
			d, v := target(f.Type)
			dest = append(dest, d)
			vals[i] = v
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, perr.FromPostgresf(err, "scan %s row", t.Name)
		}
		row := archive.NewRow(t, pk)
		for i, f := range t.Fields {
			if err := row.Load(f.Name, vals[i]()); err != nil {
				return nil, perr.Wrapf(err, perr.CodeOf(err), "%s row %d", t.Name, pk)
			}
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "load %s rows of %s", t.Name, descriptor)
	}
	return out, nil
}

// target returns a nullable scan destination for a column type and a reader for its value
func target(ft archive.FieldType) (any, func() any) {
	switch ft {
	case archive.Int:
		p := new(*int64)
		return p, func() any { return *p }
	case archive.Decimal:
		p := new(decimal.NullDecimal)
		return p, func() any { return *p }
	case archive.Date:
		p := new(*time.Time)
		return p, func() any { return *p }
	default:
		p := new(*string)
		return p, func() any { return *p }
	}
}

// BulkCreate implements archive.Writer with multi-row INSERT statements
func (s *pg) BulkCreate(ctx context.Context, t *archive.Table, rows []*archive.Row) error {
	if len(rows) == 0 {
		return nil
	}
	cols := t.Columns()
	for _, chunk := range archive.Chunks(rows, maxParams/len(cols)) {
		var sb strings.Builder
		args := make([]any, 0, len(chunk)*len(cols))
		arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", t.Name, strings.Join(cols, ", "))
		for i, r := range chunk {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			for j, v := range r.Values(cols) {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(arg(v) + "::" + sqlType(t.Fields[j].Type))
			}
			sb.WriteByte(')')
		}
		if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
			return perr.FromPostgresf(err, "insert %d %s rows", len(chunk), t.Name)
		}
	}
	return nil
}

// BulkUpdate implements archive.Writer with UPDATE ... FROM (VALUES ...) keyed by the archive PK
func (s *pg) BulkUpdate(ctx context.Context, t *archive.Table, rows []*archive.Row, fields []string) error {
	if len(rows) == 0 || len(fields) == 0 {
		return nil
	}
	types := make([]string, len(fields))
	for i, name := range fields {
		f, ok := t.Field(name)
		if !ok {
			return perr.WithField(perr.InvalidArgf("table %s has no column %s", t.Name, name), name)
		}
		types[i] = sqlType(f.Type)
	}

	for _, chunk := range archive.Chunks(rows, maxParams/(len(fields)+1)) {
		var sb strings.Builder
		args := make([]any, 0, len(chunk)*(len(fields)+1))
		arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

		fmt.Fprintf(&sb, "UPDATE %s AS x SET ", t.Name)
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s = v.%s", f, f)
		}
		sb.WriteString(" FROM (VALUES ")
		for i, r := range chunk {
			if r.IsNew() {
				return perr.InvalidArgf("%s: cannot update a row without %s", t.Name, t.PK)
			}
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString("(" + arg(r.PK) + "::bigint")
			for j, v := range r.Values(fields) {
				sb.WriteString(", " + arg(v) + "::" + types[j])
			}
			sb.WriteByte(')')
		}
		fmt.Fprintf(&sb, ") AS v(%s, %s) WHERE x.%s = v.%s", t.PK, strings.Join(fields, ", "), t.PK, t.PK)

		if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
			return perr.FromPostgresf(err, "update %d %s rows", len(chunk), t.Name)
		}
	}
	return nil
}

func sqlType(ft archive.FieldType) string {
	switch ft {
	case archive.Int:
		return "bigint"
	case archive.Decimal:
		return "numeric"
	case archive.Date:
		return "date"
	default:
		return "text"
	}
}
