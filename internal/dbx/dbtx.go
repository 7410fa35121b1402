// Package dbx lets repository code run the same queries on a plain
// connection or inside a transaction: DBTX is the common surface of
// *sql.DB and *sql.Tx, and WithTx handles the begin/commit/rollback
// ceremony around a function that needs transactional scope.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface repositories depend on. Passing a transaction
// where a *sql.DB is expected (or vice versa) needs no adapter.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil, rollback
// when it returns an error or panics (the panic is rethrown after rollback).
// The offset-assignment path relies on this to keep its read-check-insert
// sequence atomic per session.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
