package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReadTable reads every row of a table, scanning all values as nullable
// text. Column typing is the caller's concern.
func ReadTable(ctx context.Context, db *sql.DB, driver, table string) ([]string, [][]sql.NullString, error) {
	if !identPattern.MatchString(table) {
		return nil, nil, fmt.Errorf("invalid table name: %q", table)
	}
	quoted, err := quoteIdent(driver, table)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoted)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]sql.NullString
	for rows.Next() {
		row := make([]sql.NullString, len(columns))
		scan := make([]any, len(columns))
		for i := range row {
			scan[i] = &row[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, row)
	}
	return columns, out, rows.Err()
}
