// Package repokit binds domain repositories to a pool or a transaction
package repokit

import (
	"context"
	"fmt"
	"time"

	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/store"
)

type (
	// Queryer is what a bound repo runs SQL through
	Queryer = store.RowQuerier

	// TxRunner opens transactions
	TxRunner = store.TxRunner
)

// Binder makes a repo of type T that runs on q
type Binder[T any] interface {
	Bind(q Queryer) T
}

// BindFunc is a Binder built from a function
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// BeginHook runs at the top of each transaction opened by InTx
type BeginHook func(ctx context.Context, q Queryer) error

// StatementTimeout caps every statement of the transaction at d via SET LOCAL.
// d <= 0 leaves the server default.
func StatementTimeout(d time.Duration) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		if d <= 0 {
			return nil
		}
		if _, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds())); err != nil {
			return perr.FromPostgresf(err, "set statement timeout")
		}
		return nil
	}
}

// InTx opens one transaction on db, runs hooks, then calls fn with a repo
// bound to it. Any error rolls the whole transaction back.
func InTx[T any](ctx context.Context, db TxRunner, b Binder[T], hooks []BeginHook, fn func(repo T) error) error {
	return db.Tx(ctx, func(q Queryer) error {
		for _, h := range hooks {
			if err := h(ctx, q); err != nil {
				return err
			}
		}
		return fn(b.Bind(q))
	})
}
