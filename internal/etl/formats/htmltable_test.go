package formats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprep/internal/etl"
)

const cityPage = `<!doctype html>
<html><body>
<h1>City development index</h1>
<table>
  <tr><th>city</th><th>city_development_index</th></tr>
  <tr><td>Hanoi</td><td>0.92</td></tr>
  <tr><td>Hue</td><td></td></tr>
  <tr><td> Da
    Nang </td><td>0.87</td></tr>
</table>
<table><tr><th>ignored</th></tr></table>
</body></html>`

func TestHTMLTable_Normalize(t *testing.T) {
	f := &htmlTableFormat{}
	in := stageFile(t, "cities.html", cityPage)

	ds, err := f.Normalize(context.Background(), "cities", in)
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "city_development_index"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.NumRows())

	city := ds.Column("city")
	assert.Equal(t, etl.String("Da Nang"), city.Cells[2], "whitespace collapsed")

	idx := ds.Column("city_development_index")
	assert.False(t, idx.Cells[1].Valid, "empty cell is null")
	assert.Equal(t, etl.KindFloat, idx.Infer())
}

func TestHTMLTable_OnlyFirstTableIsRead(t *testing.T) {
	f := &htmlTableFormat{}
	in := stageFile(t, "two.html", cityPage)

	ds, err := f.Normalize(context.Background(), "cities", in)
	require.NoError(t, err)
	assert.NotContains(t, ds.ColumnNames(), "ignored")
}

func TestHTMLTable_NoTableIsParseError(t *testing.T) {
	f := &htmlTableFormat{}
	in := stageFile(t, "plain.html", "<html><body><p>nothing here</p></body></html>")

	_, err := f.Normalize(context.Background(), "plain", in)
	var parseErr *etl.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "no table")
}
