package formats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dataprep/internal/etl"
)

func writeWorkbook(t *testing.T, rows [][]any) etl.Input {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, book.SaveAs(path))
	return etl.Input{Path: path}
}

func TestXLSX_Normalize(t *testing.T) {
	f := &xlsxFormat{}
	in := writeWorkbook(t, [][]any{
		{"city", "index"},
		{"Hanoi", 0.92},
		{"Hue", nil},
	})

	ds, err := f.Normalize(context.Background(), "cities", in)
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "index"}, ds.ColumnNames())
	assert.Equal(t, 2, ds.NumRows())

	idx := ds.Column("index")
	assert.Equal(t, etl.KindFloat, idx.Infer(), "numeric cells keep numeric text")
	assert.False(t, idx.Cells[1].Valid, "blank cell becomes null")
}

func TestXLSX_IntegerColumn(t *testing.T) {
	f := &xlsxFormat{}
	in := writeWorkbook(t, [][]any{
		{"id", "hours"},
		{1, 12},
		{2, 47},
	})

	ds, err := f.Normalize(context.Background(), "training", in)
	require.NoError(t, err)
	assert.Equal(t, etl.KindInteger, ds.Column("hours").Infer())
}

func TestXLSX_EmptySheetIsParseError(t *testing.T) {
	f := &xlsxFormat{}
	in := writeWorkbook(t, nil)

	_, err := f.Normalize(context.Background(), "empty", in)
	var parseErr *etl.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestXLSX_UnreadableFileIsParseError(t *testing.T) {
	f := &xlsxFormat{}
	in := stageFile(t, "garbage.xlsx", "this is not a zip archive")

	_, err := f.Normalize(context.Background(), "garbage", in)
	var parseErr *etl.ParseError
	require.ErrorAs(t, err, &parseErr)
}
