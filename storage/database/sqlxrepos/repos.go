// Package sqlxrepos implements the core repositories on top of sqlx.
// Queries use "?" placeholders and are rebound to the driver's bindvar style.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
)

type base struct {
	exec core.DBExecutor
}

func (b base) rebind(query string) string {
	return b.exec.Rebind(query)
}

func (b base) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, b.exec, dest, b.rebind(query), args...)
}

func (b base) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, b.exec, dest, b.rebind(query), args...)
}

func (b base) execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return b.exec.ExecContext(ctx, b.rebind(query), args...)
}

// executeOne runs a write that must touch exactly one row, else reports core.ErrNotFound.
func (b base) executeOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := b.execute(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// trapNoRowsErr maps sql "no rows" err to core.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// utc drops the monotonic clock and location so times round-trip identically on every engine.
func utc(t time.Time) time.Time {
	return t.UTC().Round(time.Microsecond)
}
