package task

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Clean runs the cleaning pipeline over a table in place. Steps run in
// a fixed order independent of how the caller ordered the request:
// empty-row drop, empty-column drop, dedup, null fill, trim, column
// standardization, retyping, derived columns, date normalization.
// Rename runs before retype so type targets address the new names.
func Clean(t *tabular.Table, set *Set) error {
	if set.RemoveEmptyRows {
		removeEmptyRows(t)
	}
	if set.RemoveEmptyColumns {
		removeEmptyColumns(t)
	}
	if set.RemoveDuplicates != nil {
		if err := removeDuplicates(t, set.RemoveDuplicates.Columns); err != nil {
			return err
		}
	}
	if set.ReplaceNulls != nil {
		replaceNulls(t, set.ReplaceNulls.Value)
	}
	if set.TrimWhitespace {
		trimWhitespace(t)
	}
	if set.StandardizeColumns != nil {
		if err := standardizeColumns(t, set.StandardizeColumns.Format); err != nil {
			return err
		}
	}
	if set.ChangeTypes != nil {
		if err := changeTypes(t, set.ChangeTypes); err != nil {
			return err
		}
	}
	if set.Formulas != nil {
		if err := applyFormulas(t, set.Formulas); err != nil {
			return err
		}
	}
	if set.NormalizeDates != nil {
		if err := normalizeDates(t, set.NormalizeDates); err != nil {
			return err
		}
	}
	return nil
}

func removeEmptyRows(t *tabular.Table) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		for _, cell := range row {
			if !cell.IsNull() {
				kept = append(kept, row)
				break
			}
		}
	}
	t.Rows = kept
}

func removeEmptyColumns(t *tabular.Table) {
	kept := []int{}
	for ci := range t.Columns {
		for _, row := range t.Rows {
			if !row[ci].IsNull() {
				kept = append(kept, ci)
				break
			}
		}
	}
	if len(kept) == len(t.Columns) {
		return
	}
	columns := make([]string, len(kept))
	for i, ci := range kept {
		columns[i] = t.Columns[ci]
	}
	for ri, row := range t.Rows {
		cells := make([]tabular.Value, len(kept))
		for i, ci := range kept {
			cells[i] = row[ci]
		}
		t.Rows[ri] = cells
	}
	t.Columns = columns
}

// removeDuplicates keeps the first occurrence of each distinct key
// tuple. Integer and float cells with equal numeric value count as the
// same key.
func removeDuplicates(t *tabular.Table, columns []string) error {
	key := make([]int, 0, len(t.Columns))
	if len(columns) == 0 {
		for ci := range t.Columns {
			key = append(key, ci)
		}
	} else {
		for _, name := range columns {
			ci := t.ColumnIndex(name)
			if ci < 0 {
				return tabular.NewColumnNotFoundError(name)
			}
			key = append(key, ci)
		}
	}

	seen := map[string]bool{}
	kept := t.Rows[:0]
	var b strings.Builder
	for _, row := range t.Rows {
		b.Reset()
		for _, ci := range key {
			b.WriteString(cellKey(row[ci]))
			b.WriteByte('\x1f')
		}
		k := b.String()
		if !seen[k] {
			seen[k] = true
			kept = append(kept, row)
		}
	}
	t.Rows = kept
	return nil
}

func cellKey(v tabular.Value) string {
	switch v.Kind() {
	case tabular.KindNull:
		return "\x00"
	case tabular.KindBool:
		return "b:" + strconv.FormatBool(v.AsBool())
	case tabular.KindInt:
		return "n:" + strconv.FormatFloat(float64(v.AsInt()), 'g', -1, 64)
	case tabular.KindFloat:
		return "n:" + strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)
	default:
		return "t:" + v.AsText()
	}
}

func replaceNulls(t *tabular.Table, value any) {
	fill := tabular.FromAny(value)
	if fill.IsNull() {
		fill = tabular.Text("")
	}
	for _, row := range t.Rows {
		for ci, cell := range row {
			if cell.IsNull() {
				row[ci] = fill
			}
		}
	}
}

func trimWhitespace(t *tabular.Table) {
	for _, row := range t.Rows {
		for ci, cell := range row {
			if cell.Kind() == tabular.KindText {
				row[ci] = tabular.Text(strings.TrimSpace(cell.AsText()))
			}
		}
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// standardizeColumns rewrites column names. Renames can collide, the
// usual numeric suffixes keep them unique.
func standardizeColumns(t *tabular.Table, format string) error {
	if format == "" {
		format = "lowercase_underscore"
	}
	names := make([]string, len(t.Columns))
	switch format {
	case "lowercase_underscore":
		for i, col := range t.Columns {
			names[i] = whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(col)), "_")
		}
	case "lowercase":
		for i, col := range t.Columns {
			names[i] = strings.ToLower(strings.TrimSpace(col))
		}
	default:
		return tabular.NewInvalidParameterErrorf("unknown column format: %s", format)
	}
	t.Columns = tabular.DedupeColumns(names)
	return nil
}

// changeTypes coerces listed columns. Coercion is total: unparseable
// cells become null, never an error. Targets are processed in sorted
// column order, they are independent of each other.
func changeTypes(t *tabular.Table, targets map[string]string) error {
	for _, col := range sortedKeys(targets) {
		ci := t.ColumnIndex(col)
		if ci < 0 {
			return tabular.NewColumnNotFoundError(col)
		}
		switch targets[col] {
		case "int":
			for _, row := range t.Rows {
				if f, ok := row[ci].Num(); ok && f >= math.MinInt64 && f < math.MaxInt64 {
					row[ci] = tabular.Int(int64(f))
				} else {
					row[ci] = tabular.Null()
				}
			}
		case "float":
			for _, row := range t.Rows {
				if f, ok := row[ci].Num(); ok {
					row[ci] = tabular.Float(f)
				} else {
					row[ci] = tabular.Null()
				}
			}
		case "str":
			for _, row := range t.Rows {
				row[ci] = tabular.Text(row[ci].Text())
			}
		default:
			return tabular.NewUnsupportedTypeError(targets[col])
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
