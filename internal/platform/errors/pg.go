package errors

import (
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlStates maps the SQLSTATE values the merge and sync repos hit onto codes
// anything else from Postgres is ErrorCodeDB
var sqlStates = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,
	"23503": ErrorCodeInvalidArgument, // foreign key: points at a missing row
	"22001": ErrorCodeInvalidArgument, // string too long for column
	"22P02": ErrorCodeInvalidArgument,
	"22003": ErrorCodeInvalidArgument, // numeric out of range
	"23502": ErrorCodeValidation,
	"23514": ErrorCodeValidation,
	"40001": ErrorCodeDB,
	"40P01": ErrorCodeDB,
	"55P03": ErrorCodeDB,
	"57014": ErrorCodeUnavailable, // statement_timeout
	"25006": ErrorCodeUnavailable,
	"57P03": ErrorCodeUnavailable,
}

// FromPostgresf wraps a database error with a code derived from its SQLSTATE
// The offending column, when Postgres reports one, becomes the field
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	out := &Error{code: ErrorCodeDB, msg: fmt.Sprintf(format, a...), orig: err}
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return out
	}
	if c, ok := sqlStates[pgErr.Code]; ok {
		out.code = c
	}
	out.field = pgErr.ColumnName
	return out
}
