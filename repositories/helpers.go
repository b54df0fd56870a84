package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLExecutor lets repository methods run inside a caller-owned
// transaction when one is passed, or on the pool otherwise.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Tx is the transaction surface the service layer drives: the executor
// handed to repository methods plus commit and rollback.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// TxBeginner starts transactions. Wrap a pool in TxDB to satisfy it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// TxDB adapts *sql.DB, whose BeginTx returns the concrete *sql.Tx.
type TxDB struct {
	*sql.DB
}

func (d TxDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return d.DB.BeginTx(ctx, opts)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
