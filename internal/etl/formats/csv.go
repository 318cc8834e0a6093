package formats

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"dataprep/internal/etl"
)

// ── CSV Format ──────────────────────────────────────────────
// Parses a staged comma-separated file. First row is the header; records
// shorter than the header are padded with nulls, records longer than the
// header are rejected. Empty fields become nulls.

type csvFormat struct{}

func init() { etl.RegisterFormat(&csvFormat{}) }

func (f *csvFormat) Name() string { return "csv" }

func (f *csvFormat) Staged() bool { return true }

func (f *csvFormat) Normalize(ctx context.Context, name string, in etl.Input) (*etl.Dataset, error) {
	file, err := os.Open(in.Path)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows handled below
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	if len(records) == 0 {
		return nil, &etl.ParseError{Input: in.Path, Err: fmt.Errorf("empty csv file")}
	}

	header := records[0]
	rows := make([][]etl.Cell, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]etl.Cell, len(rec))
		for j, field := range rec {
			if field == "" {
				row[j] = etl.Null()
			} else {
				row[j] = etl.String(field)
			}
		}
		rows[i] = row
	}

	ds, err := etl.NewDataset(name, header, rows)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	return ds, nil
}
