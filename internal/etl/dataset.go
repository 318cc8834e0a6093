package etl

import (
	"fmt"
	"strconv"
	"strings"
)

// ── Dataset ────────────────────────────────────────────────
// Common intermediate data format.
// All formats emit a Dataset, the warehouse loader consumes one.
// Columnar: named columns with positionally aligned nullable cells.

// Cell is a single nullable value. Cells hold their source text; typing
// happens per-column via Infer.
type Cell struct {
	Text  string
	Valid bool // false means null
}

// Null returns a null cell.
func Null() Cell { return Cell{} }

// String returns a non-null cell holding s.
func String(s string) Cell { return Cell{Text: s, Valid: true} }

// Kind is the inferred semantic type of a column.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// kindParsers is the ordered set of typed parsers tried in priority order.
// The first kind whose parser accepts every non-null cell wins.
var kindParsers = []struct {
	kind  Kind
	parse func(string) bool
}{
	{KindInteger, func(s string) bool {
		_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return err == nil
	}},
	{KindFloat, func(s string) bool {
		_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err == nil
	}},
}

// Column is a named, positionally aligned sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Infer returns the narrowest Kind every non-null cell satisfies.
// An all-null column infers text.
func (c *Column) Infer() Kind {
	sawValue := false
	kind := 0
next:
	for ; kind < len(kindParsers); kind++ {
		for _, cell := range c.Cells {
			if !cell.Valid {
				continue
			}
			sawValue = true
			if !kindParsers[kind].parse(cell.Text) {
				continue next
			}
		}
		break
	}
	if !sawValue || kind == len(kindParsers) {
		return KindText
	}
	return kindParsers[kind].kind
}

// AllNull reports whether the column holds no non-null cell.
func (c *Column) AllNull() bool {
	for _, cell := range c.Cells {
		if cell.Valid {
			return false
		}
	}
	return true
}

// Mode returns the most frequent non-null value, breaking ties by first
// appearance. ok is false for an all-null column.
func (c *Column) Mode() (value string, ok bool) {
	counts := make(map[string]int)
	var order []string
	for _, cell := range c.Cells {
		if !cell.Valid {
			continue
		}
		if counts[cell.Text] == 0 {
			order = append(order, cell.Text)
		}
		counts[cell.Text]++
	}
	best := 0
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			value = v
			ok = true
		}
	}
	return value, ok
}

// Dataset is an ordered collection of equally sized columns.
type Dataset struct {
	Name    string
	Columns []Column
}

// NewDataset builds a Dataset from a header and row-major cells.
// Rows shorter than the header are padded with nulls; rows longer than the
// header are rejected. Duplicate header names are disambiguated with an
// incrementing suffix (x, x_2, x_3, …).
func NewDataset(name string, header []string, rows [][]Cell) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset %s: empty header", name)
	}

	ds := &Dataset{Name: name, Columns: make([]Column, len(header))}
	for i, h := range header {
		ds.Columns[i] = Column{Name: h, Cells: make([]Cell, len(rows))}
	}
	ds.dedupeNames()

	for r, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("dataset %s: row %d has %d fields, header has %d",
				name, r+1, len(row), len(header))
		}
		for c := range ds.Columns {
			if c < len(row) {
				ds.Columns[c].Cells[r] = row[c]
			}
			// missing trailing fields stay null
		}
	}
	return ds, nil
}

// dedupeNames makes column names unique by suffixing repeats with _2, _3, …
// A generated suffix never collides with a name the header already carries.
func (ds *Dataset) dedupeNames() {
	taken := make(map[string]bool, len(ds.Columns))
	for i := range ds.Columns {
		taken[ds.Columns[i].Name] = true
	}
	seen := make(map[string]int, len(ds.Columns))
	for i := range ds.Columns {
		name := ds.Columns[i].Name
		seen[name]++
		if seen[name] == 1 {
			continue
		}
		n := seen[name]
		renamed := fmt.Sprintf("%s_%d", name, n)
		for taken[renamed] {
			n++
			renamed = fmt.Sprintf("%s_%d", name, n)
		}
		seen[name] = n
		taken[renamed] = true
		ds.Columns[i].Name = renamed
	}
}

// NumRows returns the row count. Columns are equally sized by construction.
func (ds *Dataset) NumRows() int {
	if len(ds.Columns) == 0 {
		return 0
	}
	return len(ds.Columns[0].Cells)
}

// NumColumns returns the column count.
func (ds *Dataset) NumColumns() int { return len(ds.Columns) }

// ColumnNames returns the ordered column names.
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name, or nil.
func (ds *Dataset) Column(name string) *Column {
	for i := range ds.Columns {
		if ds.Columns[i].Name == name {
			return &ds.Columns[i]
		}
	}
	return nil
}

// Validate checks the row-alignment invariant. A violation here means a
// transform corrupted the dataset.
func (ds *Dataset) Validate() error {
	if len(ds.Columns) == 0 {
		return nil
	}
	n := len(ds.Columns[0].Cells)
	for _, c := range ds.Columns[1:] {
		if len(c.Cells) != n {
			return fmt.Errorf("dataset %s: column %q has %d cells, expected %d",
				ds.Name, c.Name, len(c.Cells), n)
		}
	}
	return nil
}
