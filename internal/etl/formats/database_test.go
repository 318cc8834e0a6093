package formats

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"dataprep/internal/etl"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE training_hours (enrollee_id INTEGER, hours INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO training_hours VALUES (1, 36), (2, NULL), (3, 47)`)
	require.NoError(t, err)
	return path
}

func TestDatabase_Normalize(t *testing.T) {
	f := &databaseFormat{}
	in := etl.Input{Source: etl.Source{
		Format: "database",
		Driver: "sqlite",
		DSN:    seedSQLite(t),
		Table:  "training_hours",
	}}

	ds, err := f.Normalize(context.Background(), "training", in)
	require.NoError(t, err)

	assert.Equal(t, []string{"enrollee_id", "hours"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.NumRows())

	hours := ds.Column("hours")
	assert.Equal(t, etl.KindInteger, hours.Infer())
	assert.False(t, hours.Cells[1].Valid, "SQL NULL stays null")
}

func TestDatabase_MissingConfig(t *testing.T) {
	f := &databaseFormat{}
	_, err := f.Normalize(context.Background(), "x", etl.Input{Source: etl.Source{Format: "database"}})
	var parseErr *etl.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDatabase_UnknownTable(t *testing.T) {
	f := &databaseFormat{}
	in := etl.Input{Source: etl.Source{
		Driver: "sqlite",
		DSN:    seedSQLite(t),
		Table:  "no_such_table",
	}}
	_, err := f.Normalize(context.Background(), "x", in)
	var parseErr *etl.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDatabase_UnsupportedDriver(t *testing.T) {
	f := &databaseFormat{}
	in := etl.Input{Source: etl.Source{Driver: "oracle", DSN: "x", Table: "t"}}
	_, err := f.Normalize(context.Background(), "x", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}
