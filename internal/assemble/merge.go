// Package assemble combines and partitions tables: N-to-1 merges,
// 1-to-N splits, and the sheet-level workbook operations.
package assemble

import (
	"log/slog"
	"strings"

	"github.com/tabforge-labs/tabforge/internal/schema"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Input is one table heading into a merge. Sheet is set when the table
// came out of a workbook, and empty for flat sources.
type Input struct {
	Name  string
	Sheet string
	Table *tabular.Table
}

// SourceFileColumn and SourceSheetColumn are the provenance columns a
// merge adds to every row.
const (
	SourceFileColumn  = "source_file"
	SourceSheetColumn = "source_sheet"
)

// Merge concatenates the inputs into one table, in input order. Column
// names are trimmed and lowercased first, then every row is tagged with
// its source file (and source sheet, for workbook inputs). Inputs that
// decoded to zero rows are skipped with a warning; if everything was
// empty there is nothing to merge and that is an error. With validate
// set, tables must agree on their column sets after normalization and
// tagging; without it, mismatched columns union and the gaps fill with
// nulls.
func Merge(inputs []Input, validate bool, logger *slog.Logger) (*tabular.Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tagged := make([]schema.Source, 0, len(inputs))
	for _, in := range inputs {
		if in.Table == nil || in.Table.Empty() {
			logger.Warn("skipping empty merge input", "file", in.Name, "sheet", in.Sheet)
			continue
		}
		t := in.Table
		t.Columns = normalizeColumns(t.Columns)
		tagColumn(t, SourceFileColumn, tabular.Text(in.Name))
		if in.Sheet != "" {
			tagColumn(t, SourceSheetColumn, tabular.Text(in.Sheet))
		}
		tagged = append(tagged, schema.Source{Name: displayName(in), Table: t})
	}
	if len(tagged) == 0 {
		return nil, tabular.NewEmptyInputError("no valid data found in the uploaded files")
	}

	if validate {
		if err := schema.Validate(tagged); err != nil {
			return nil, err
		}
	}

	tables := make([]*tabular.Table, len(tagged))
	for i, src := range tagged {
		tables[i] = src.Table
	}
	return Concat(tables), nil
}

// Concat unions tables into one. Column order is first appearance
// across the inputs; rows missing a column get null cells.
func Concat(tables []*tabular.Table) *tabular.Table {
	var columns []string
	index := map[string]int{}
	for _, t := range tables {
		for _, col := range t.Columns {
			if _, seen := index[col]; !seen {
				index[col] = len(columns)
				columns = append(columns, col)
			}
		}
	}

	out := tabular.NewTable(columns...)
	for _, t := range tables {
		mapping := make([]int, len(t.Columns))
		for ci, col := range t.Columns {
			mapping[ci] = index[col]
		}
		for _, row := range t.Rows {
			cells := make([]tabular.Value, len(columns))
			for ci, cell := range row {
				cells[mapping[ci]] = cell
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

func normalizeColumns(columns []string) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return tabular.DedupeColumns(names)
}

// tagColumn sets every cell of a column to one value, appending the
// column if the table does not already carry it.
func tagColumn(t *tabular.Table, name string, value tabular.Value) {
	ci := t.ColumnIndex(name)
	if ci < 0 {
		ci = len(t.Columns)
		t.Columns = append(t.Columns, name)
		for ri, row := range t.Rows {
			t.Rows[ri] = append(row, tabular.Null())
		}
	}
	for _, row := range t.Rows {
		row[ci] = value
	}
}

func displayName(in Input) string {
	if in.Sheet == "" {
		return in.Name
	}
	return in.Name + ":" + in.Sheet
}
