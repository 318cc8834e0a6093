package formats

import (
	"context"
	"fmt"

	"dataprep/internal/dbclient"
	"dataprep/internal/etl"
)

// ── Database Format ─────────────────────────────────────────
// Reads an entire table from an external relational database through the
// dbclient layer. Nothing is staged; the connection is opened and closed
// per run.

type databaseFormat struct{}

func init() { etl.RegisterFormat(&databaseFormat{}) }

func (f *databaseFormat) Name() string { return "database" }

func (f *databaseFormat) Staged() bool { return false }

func (f *databaseFormat) Normalize(ctx context.Context, name string, in etl.Input) (*etl.Dataset, error) {
	src := in.Source
	if src.DSN == "" || src.Table == "" {
		return nil, &etl.ParseError{Input: name, Err: fmt.Errorf("database source requires dsn and table")}
	}

	db, err := dbclient.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, &etl.ParseError{Input: src.Table, Err: err}
	}
	defer db.Close()

	columns, rows, err := dbclient.ReadTable(ctx, db, src.Driver, src.Table)
	if err != nil {
		return nil, &etl.ParseError{Input: src.Table, Err: err}
	}

	cells := make([][]etl.Cell, len(rows))
	for i, row := range rows {
		r := make([]etl.Cell, len(row))
		for j, v := range row {
			if v.Valid {
				r[j] = etl.String(v.String)
			} else {
				r[j] = etl.Null()
			}
		}
		cells[i] = r
	}

	ds, err := etl.NewDataset(name, columns, cells)
	if err != nil {
		return nil, &etl.ParseError{Input: src.Table, Err: err}
	}
	return ds, nil
}
