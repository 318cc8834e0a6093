package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dataprep/internal/etl"
)

// ── Loader ─────────────────────────────────────────────────
// Writes a Dataset into a named warehouse table. Replace semantics only:
// the table is dropped and recreated from the dataset's inferred schema on
// every load. Never append, never merge.

// Loader writes datasets into the warehouse.
type Loader struct {
	db *DB
}

// NewLoader creates a Loader over the warehouse.
func NewLoader(db *DB) *Loader {
	return &Loader{db: db}
}

// affinity maps an inferred column kind to a SQLite column type.
func affinity(k etl.Kind) string {
	switch k {
	case etl.KindInteger:
		return "INTEGER"
	case etl.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// quote quotes an identifier for SQLite.
func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Load replaces table with the dataset's contents and returns the number of
// rows written.
func (l *Loader) Load(ctx context.Context, table string, ds *etl.Dataset) (int, error) {
	if table == "" {
		return 0, &etl.LoadError{Table: table, Err: fmt.Errorf("empty table name")}
	}
	if ds.NumColumns() == 0 {
		return 0, &etl.LoadError{Table: table, Err: fmt.Errorf("dataset has no columns")}
	}
	// Ragged datasets cannot come out of NewDataset; a failure here means a
	// cleaning rule broke the alignment invariant.
	if err := ds.Validate(); err != nil {
		return 0, &etl.LoadError{Table: table, Err: err}
	}

	kinds := make([]etl.Kind, ds.NumColumns())
	defs := make([]string, ds.NumColumns())
	marks := make([]string, ds.NumColumns())
	for i := range ds.Columns {
		kinds[i] = ds.Columns[i].Infer()
		defs[i] = quote(ds.Columns[i].Name) + " " + affinity(kinds[i])
		marks[i] = "?"
	}

	tx, err := l.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, &etl.LoadError{Table: table, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
		return 0, &etl.LoadError{Table: table, Err: err}
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, &etl.LoadError{Table: table, Err: err}
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(table), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, &etl.LoadError{Table: table, Err: err}
	}
	defer stmt.Close()

	written := 0
	args := make([]any, ds.NumColumns())
	for r := 0; r < ds.NumRows(); r++ {
		for c := range ds.Columns {
			v, err := bindValue(ds.Columns[c].Cells[r], kinds[c])
			if err != nil {
				return written, &etl.LoadError{Table: table,
					Err: fmt.Errorf("row %d column %q: %w", r+1, ds.Columns[c].Name, err)}
			}
			args[c] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return written, &etl.LoadError{Table: table, Err: err}
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return written, &etl.LoadError{Table: table, Err: err}
	}
	return written, nil
}

// bindValue converts a cell to a driver value of the column's inferred kind.
// Nulls stay nil; they are never coerced to zero.
func bindValue(cell etl.Cell, kind etl.Kind) (any, error) {
	if !cell.Valid {
		return nil, nil
	}
	switch kind {
	case etl.KindInteger:
		return strconv.ParseInt(strings.TrimSpace(cell.Text), 10, 64)
	case etl.KindFloat:
		return strconv.ParseFloat(strings.TrimSpace(cell.Text), 64)
	default:
		return cell.Text, nil
	}
}
