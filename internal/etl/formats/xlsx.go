package formats

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"dataprep/internal/etl"
)

// ── XLSX Format ─────────────────────────────────────────────
// Parses a staged spreadsheet. Only the first worksheet is read; the first
// row is the header. Cell values arrive as excelize renders them (numeric
// cells keep their numeric text), so column typing falls out of the usual
// inference. Blank cells become nulls.

type xlsxFormat struct{}

func init() { etl.RegisterFormat(&xlsxFormat{}) }

func (f *xlsxFormat) Name() string { return "xlsx" }

func (f *xlsxFormat) Staged() bool { return true }

func (f *xlsxFormat) Normalize(ctx context.Context, name string, in etl.Input) (*etl.Dataset, error) {
	book, err := excelize.OpenFile(in.Path)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, &etl.ParseError{Input: in.Path, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &etl.ParseError{Input: in.Path, Err: fmt.Errorf("sheet %q is empty", sheets[0])}
	}

	header := rows[0]
	cells := make([][]etl.Cell, len(rows)-1)
	for i, row := range rows[1:] {
		r := make([]etl.Cell, len(row))
		for j, v := range row {
			if v == "" {
				r[j] = etl.Null()
			} else {
				r[j] = etl.String(v)
			}
		}
		cells[i] = r
	}

	ds, err := etl.NewDataset(name, header, cells)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	return ds, nil
}
