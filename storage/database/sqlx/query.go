// Package sqlxrepos holds the PostgreSQL repositories, written with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// where accumulates AND-ed conditions written with `?` bind vars.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, "("+cond+")")
	w.args = append(w.args, args...)
}

// notIn excludes the given ids, if any.
func (w *where) notIn(col string, ids []string) {
	if len(ids) == 0 {
		return
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	w.add(col+" NOT IN ("+marks+")", args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func like(s string) string {
	return "%" + s + "%"
}

// exists runs `SELECT EXISTS(SELECT 1 FROM table WHERE ...)`.
func exists(ctx context.Context, db *sqlx.DB, q string, args ...interface{}) (bool, error) {
	var found bool
	err := db.GetContext(ctx, &found, db.Rebind("SELECT EXISTS(SELECT 1 FROM "+q+")"), args...)
	return found, err
}

// deleteIn deletes the rows of `table` whose id is in `ids`.
func deleteIn(ctx context.Context, db *sqlx.DB, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, db.Rebind(q), args...)
	return err
}

// trapNoRowsErr maps "no rows" errors to `notFound`.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func joinOr(conds []string) string {
	return strings.Join(conds, " OR ")
}
