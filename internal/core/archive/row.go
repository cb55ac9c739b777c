// Package archive models rows of the external archive's denormalized tables and
// turns local records into the minimal set of creates and updates against them
package archive

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	perr "missionsync/internal/platform/errors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// FieldType is the declared storage type of an archive column
type FieldType uint8

const (
	// String columns hold NFC-normalised text, truncated to MaxLen runes when MaxLen > 0
	// unless the column is a Key, where overflow is an error
	String FieldType = iota + 1
	// Int columns hold int64
	Int
	// Decimal columns hold decimal.Decimal rounded to Scale
	Decimal
	// Date columns hold a UTC calendar date
	Date
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	default:
		return "field_type_" + strconv.Itoa(int(t))
	}
}

// Field declares one column
type Field struct {
	Name     string
	Type     FieldType
	Scale    int32
	MaxLen   int
	Nullable bool
	// Key marks a column rows are matched on; its values are never truncated
	Key bool
}

// Table declares an archive table: its surrogate key column and the columns we write
type Table struct {
	Name   string
	PK     string
	Fields []Field

	idx map[string]int
}

// NewTable validates the declaration and indexes its columns
func NewTable(name, pk string, fields ...Field) (*Table, error) {
	if name == "" || pk == "" {
		return nil, perr.InvalidArgf("archive table needs a name and a primary key column")
	}
	t := &Table{Name: name, PK: pk, Fields: fields, idx: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Name == "" || f.Name == pk {
			return nil, perr.InvalidArgf("table %s: bad column name %q", name, f.Name)
		}
		if f.Type < String || f.Type > Date {
			return nil, perr.InvalidArgf("table %s: column %s has no type", name, f.Name)
		}
		if _, dup := t.idx[f.Name]; dup {
			return nil, perr.InvalidArgf("table %s: duplicate column %s", name, f.Name)
		}
		t.idx[f.Name] = i
	}
	return t, nil
}

// MustTable is NewTable for package-level declarations
func MustTable(name, pk string, fields ...Field) *Table {
	t, err := NewTable(name, pk, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Field looks up a column
func (t *Table) Field(name string) (Field, bool) {
	i, ok := t.idx[name]
	if !ok {
		return Field{}, false
	}
	return t.Fields[i], true
}

// Columns returns the column names in declaration order, PK excluded
func (t *Table) Columns() []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Name
	}
	return out
}

// Row is one archive row; PK is zero until the archive assigns one
type Row struct {
	Table *Table
	PK    int64

	vals map[string]any
}

// NewRow returns an empty row of t
func NewRow(t *Table, pk int64) *Row {
	return &Row{Table: t, PK: pk, vals: make(map[string]any, len(t.Fields))}
}

// IsNew reports whether the row has never been stored
func (r *Row) IsNew() bool { return r.PK == 0 }

// Get returns the stored value of a column, nil when absent
func (r *Row) Get(name string) any { return r.vals[name] }

// Load stores a value read from the archive without change tracking
func (r *Row) Load(name string, v any) error {
	f, ok := r.Table.Field(name)
	if !ok {
		return perr.WithField(perr.InvalidArgf("table %s has no column %s", r.Table.Name, name), name)
	}
	cv, err := coerce(f, v)
	if err != nil {
		return err
	}
	r.vals[name] = cv
	return nil
}

// Values returns the row's values in cols order
func (r *Row) Values(cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = r.vals[c]
	}
	return out
}

// SetIfDifferent coerces v to the column type and writes it when it differs from the
// stored value; it reports whether the row changed
// For nullable columns an empty string and an absent value compare equal
func SetIfDifferent(r *Row, name string, v any) (bool, error) {
	f, ok := r.Table.Field(name)
	if !ok {
		return false, perr.WithField(perr.InvalidArgf("table %s has no column %s", r.Table.Name, name), name)
	}
	nv, err := coerce(f, v)
	if err != nil {
		return false, err
	}
	if equal(f, r.vals[name], nv) {
		return false, nil
	}
	r.vals[name] = nv
	return true, nil
}

func equal(f Field, a, b any) bool {
	if f.Nullable {
		if s, ok := a.(string); ok && s == "" {
			a = nil
		}
		if s, ok := b.(string); ok && s == "" {
			b = nil
		}
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

func coerce(f Field, v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && f.Type != String && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		out any
		err error
	)
	switch f.Type {
	case String:
		out, err = coerceString(f, v)
	case Int:
		out, err = coerceInt(v)
	case Decimal:
		out, err = coerceDecimal(f, v)
	case Date:
		out, err = coerceDate(v)
	}
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("column %s (%s): %v", f.Name, f.Type, err), f.Name)
	}
	if s, ok := out.(string); ok && s == "" && f.Nullable {
		return nil, nil
	}
	return out, nil
}

func coerceString(f Field, v any) (string, error) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	s = norm.NFC.String(s)
	if f.MaxLen > 0 && utf8.RuneCountInString(s) > f.MaxLen {
		if f.Key {
			return "", fmt.Errorf("%q is longer than %d characters", s, f.MaxLen)
		}
		s = string([]rune(s)[:f.MaxLen])
	}
	return s, nil
}

func coerceInt(v any) (any, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case decimal.Decimal:
		return x.Round(0).IntPart(), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return nil, fmt.Errorf("cannot use %T as int", v)
	}
}

func coerceDecimal(f Field, v any) (any, error) {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%v is not a finite number", x)
		}
		d = decimal.NewFromFloat(x)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil, fmt.Errorf("%v is not a finite number", x)
		}
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case string:
		var err error
		if d, err = decimal.NewFromString(strings.TrimSpace(x)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot use %T as decimal", v)
	}
	return d.Round(f.Scale), nil
}

func coerceDate(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil, nil
		}
		y, m, d := x.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case string:
		return time.Parse(time.DateOnly, strings.TrimSpace(x))
	default:
		return nil, fmt.Errorf("cannot use %T as date", v)
	}
}

// deref unwraps the pointer shapes local records use for optional columns
func deref(v any) any {
	switch x := v.(type) {
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *int:
		if x == nil {
			return nil
		}
		return *x
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal
	}
	return v
}
