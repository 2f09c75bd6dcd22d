package service

import (
	"context"
	"database/sql"
)

// withTx runs fn inside a transaction, committing when it returns nil
// and rolling back otherwise.  Errors from fn are returned unchanged;
// begin and commit failures are reported as ErrStore.
func withTx(ctx context.Context, db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(op, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr(op, err)
	}
	committed = true
	return nil
}
