package etl

import (
	"fmt"
	"sort"
)

// ── Cleaning Rules ─────────────────────────────────────────
// Rules modify a Dataset between normalizing and loading.
// They are composable and declarative: each is built from a RuleConfig
// stored in the dataset's configuration and applied in order.
//
// Defaults are conservative: nulls stay null unless a rule fills them, and
// all-null columns are retained unless a drop rule names them.

// RuleConfig is a declarative cleaning rule definition.
type RuleConfig struct {
	Op      string            `yaml:"op"` // "fill" | "fill_mode" | "replace" | "rename" | "drop"
	Column  string            `yaml:"column"`
	Value   string            `yaml:"value,omitempty"`   // fill
	Mapping map[string]string `yaml:"mapping,omitempty"` // replace, rename
}

// Rule applies one cleaning step to a dataset in place.
type Rule interface {
	Apply(*Dataset) error
}

// BuildRules converts declarative RuleConfigs into Rule instances.
func BuildRules(configs []RuleConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(configs))
	for i, rc := range configs {
		switch rc.Op {
		case "fill":
			if rc.Column == "" {
				return nil, fmt.Errorf("rule %d: fill requires a column", i+1)
			}
			rules = append(rules, &FillRule{Column: rc.Column, Value: rc.Value})
		case "fill_mode":
			if rc.Column == "" {
				return nil, fmt.Errorf("rule %d: fill_mode requires a column", i+1)
			}
			rules = append(rules, &FillModeRule{Column: rc.Column})
		case "replace":
			if rc.Column == "" || len(rc.Mapping) == 0 {
				return nil, fmt.Errorf("rule %d: replace requires a column and a mapping", i+1)
			}
			rules = append(rules, &ReplaceRule{Column: rc.Column, Mapping: rc.Mapping})
		case "rename":
			if len(rc.Mapping) == 0 {
				return nil, fmt.Errorf("rule %d: rename requires a mapping", i+1)
			}
			rules = append(rules, &RenameRule{Mapping: rc.Mapping})
		case "drop":
			if rc.Column == "" {
				return nil, fmt.Errorf("rule %d: drop requires a column", i+1)
			}
			rules = append(rules, &DropRule{Column: rc.Column})
		default:
			return nil, fmt.Errorf("rule %d: unknown op %q", i+1, rc.Op)
		}
	}
	return rules, nil
}

// ApplyRules runs each rule in order against the dataset.
func ApplyRules(ds *Dataset, rules []Rule) error {
	for _, r := range rules {
		if err := r.Apply(ds); err != nil {
			return err
		}
	}
	return nil
}

// ── Built-in Rules ─────────────────────────────────────────

// FillRule replaces nulls in a column with a constant.
type FillRule struct {
	Column string
	Value  string
}

func (r *FillRule) Apply(ds *Dataset) error {
	col := ds.Column(r.Column)
	if col == nil {
		return fmt.Errorf("fill: no column %q", r.Column)
	}
	for i := range col.Cells {
		if !col.Cells[i].Valid {
			col.Cells[i] = String(r.Value)
		}
	}
	return nil
}

// FillModeRule replaces nulls with the column's most frequent non-null value.
// An all-null column is left unchanged; there is nothing to fill with.
type FillModeRule struct {
	Column string
}

func (r *FillModeRule) Apply(ds *Dataset) error {
	col := ds.Column(r.Column)
	if col == nil {
		return fmt.Errorf("fill_mode: no column %q", r.Column)
	}
	mode, ok := col.Mode()
	if !ok {
		return nil
	}
	for i := range col.Cells {
		if !col.Cells[i].Valid {
			col.Cells[i] = String(mode)
		}
	}
	return nil
}

// ReplaceRule maps specific cell values to replacements. Nulls and values
// outside the mapping pass through untouched.
type ReplaceRule struct {
	Column  string
	Mapping map[string]string
}

func (r *ReplaceRule) Apply(ds *Dataset) error {
	col := ds.Column(r.Column)
	if col == nil {
		return fmt.Errorf("replace: no column %q", r.Column)
	}
	for i := range col.Cells {
		if !col.Cells[i].Valid {
			continue
		}
		if to, ok := r.Mapping[col.Cells[i].Text]; ok {
			col.Cells[i] = String(to)
		}
	}
	return nil
}

// RenameRule renames columns.
type RenameRule struct {
	Mapping map[string]string // oldName → newName
}

func (r *RenameRule) Apply(ds *Dataset) error {
	// Sorted key order keeps interacting renames deterministic; map
	// iteration order is not.
	olds := make([]string, 0, len(r.Mapping))
	for old := range r.Mapping {
		olds = append(olds, old)
	}
	sort.Strings(olds)

	for _, old := range olds {
		new_ := r.Mapping[old]
		col := ds.Column(old)
		if col == nil {
			return fmt.Errorf("rename: no column %q", old)
		}
		if ds.Column(new_) != nil {
			return fmt.Errorf("rename: column %q already exists", new_)
		}
		col.Name = new_
	}
	return nil
}

// DropRule removes a column. This is the only path by which an all-null
// column leaves a dataset.
type DropRule struct {
	Column string
}

func (r *DropRule) Apply(ds *Dataset) error {
	for i := range ds.Columns {
		if ds.Columns[i].Name == r.Column {
			ds.Columns = append(ds.Columns[:i], ds.Columns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("drop: no column %q", r.Column)
}
