package tabular

import "strconv"

// Table is the canonical in-memory tabular value: an ordered list of
// uniquely named columns and an ordered list of rows. Every row holds
// exactly one cell per column.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// NewTable creates an empty table with the given column names.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// ColumnIndex returns the position of the named column, or -1 when the
// table has no such column. Lookup is case-sensitive.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AppendRow adds a row. Rows shorter than the column list are padded
// with nulls; longer rows are truncated. Ragged sources (spreadsheets
// trim trailing empty cells) rely on the padding.
func (t *Table) AppendRow(cells ...Value) {
	row := make([]Value, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Empty reports whether the table has zero rows. A table with columns
// but no rows is empty; emptiness never depends on the column count.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.Columns) }

// Clone returns a deep copy. Cell values are plain values, so copying
// the row slices is sufficient.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// DedupeColumns rewrites names so that every entry is unique, suffixing
// repeats with ".1", ".2" and so on. Decoders use it for repeated headers
// and column standardization uses it when a rewrite causes a collision.
func DedupeColumns(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		n, dup := seen[name]
		if !dup {
			seen[name] = 0
			out[i] = name
			continue
		}
		for {
			n++
			candidate := name + "." + strconv.Itoa(n)
			if _, taken := seen[candidate]; !taken {
				seen[name] = n
				seen[candidate] = 0
				out[i] = candidate
				break
			}
		}
	}
	return out
}
