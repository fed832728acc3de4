package task

import (
	"strings"

	"github.com/tabforge-labs/tabforge/internal/condition"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Extract runs the extraction pipeline over a table in place, in fixed
// order: index slice, row condition, column projection, filter. The
// condition and filter steps share one contract, callers declare them
// separately and the engine honors both.
func Extract(t *tabular.Table, set *Set) error {
	if set.RowsByIndex != nil {
		if err := extractRowsByIndex(t, set.RowsByIndex); err != nil {
			return err
		}
	}
	if set.RowsByCondition != nil {
		if err := extractRowsByCondition(t, set.RowsByCondition.Condition); err != nil {
			return err
		}
	}
	if set.Columns != nil {
		if err := extractColumns(t, set.Columns.Columns); err != nil {
			return err
		}
	}
	if set.Filter != nil {
		if err := extractRowsByCondition(t, set.Filter.Condition); err != nil {
			return err
		}
	}
	return nil
}

func extractRowsByIndex(t *tabular.Table, params *RangeParams) error {
	if params.Start == nil || params.End == nil {
		return tabular.NewInvalidRangeError("row indices are required: provide both start and end")
	}
	start, end := *params.Start, *params.End
	switch {
	case start < 0:
		return tabular.NewInvalidRangeErrorf("start index %d is negative", start)
	case end < start:
		return tabular.NewInvalidRangeErrorf("end index %d is before start index %d", end, start)
	case end >= t.NumRows():
		return tabular.NewInvalidRangeErrorf("end index %d is out of bounds for %d rows", end, t.NumRows())
	}
	t.Rows = t.Rows[start : end+1]
	return nil
}

// extractRowsByCondition keeps the rows the predicate selects. An empty
// condition is a declared no-op, not an error.
func extractRowsByCondition(t *tabular.Table, expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	keep, err := condition.Keep(t, expr)
	if err != nil {
		return err
	}
	rows := make([][]tabular.Value, len(keep))
	for i, ri := range keep {
		rows[i] = t.Rows[ri]
	}
	t.Rows = rows
	return nil
}

// extractColumns projects onto the named columns in the order given.
// A name repeated in the request contributes one column.
func extractColumns(t *tabular.Table, columns []string) error {
	indices := make([]int, 0, len(columns))
	names := make([]string, 0, len(columns))
	picked := map[string]bool{}
	for _, name := range columns {
		ci := t.ColumnIndex(name)
		if ci < 0 {
			return tabular.NewColumnNotFoundError(name)
		}
		if picked[name] {
			continue
		}
		picked[name] = true
		indices = append(indices, ci)
		names = append(names, name)
	}
	for ri, row := range t.Rows {
		cells := make([]tabular.Value, len(indices))
		for i, ci := range indices {
			cells[i] = row[ci]
		}
		t.Rows[ri] = cells
	}
	t.Columns = names
	return nil
}
