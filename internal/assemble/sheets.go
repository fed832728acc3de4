package assemble

import (
	"strconv"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// MaxSheetNameLength is the spreadsheet container's limit on sheet
// name length.
const MaxSheetNameLength = 31

// CombineSheets concatenates every non-empty sheet into a single sheet
// with the given name. Columns union in first-appearance order, like a
// merge, but names are kept verbatim and no provenance is tagged.
func CombineSheets(wb *tabular.Workbook, target string) (*tabular.Workbook, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, tabular.NewInvalidParameterError("target sheet name is required")
	}
	if len(target) > MaxSheetNameLength {
		return nil, tabular.NewInvalidParameterErrorf("invalid sheet name: %q", target)
	}

	tables := nonEmptySheets(wb)
	if len(tables) == 0 {
		return nil, tabular.NewEmptyInputError("no valid data found in sheets")
	}

	out := tabular.NewWorkbook()
	if err := out.Add(target, Concat(tables)); err != nil {
		return nil, err
	}
	return out, nil
}

// SplitToSheets flattens every non-empty sheet and re-partitions the
// rows into sheets of rowsPerSheet rows, named Sheet_1, Sheet_2, ...
func SplitToSheets(wb *tabular.Workbook, rowsPerSheet int) (*tabular.Workbook, error) {
	if rowsPerSheet <= 0 {
		return nil, tabular.NewInvalidParameterError("rows per sheet must be greater than 0")
	}

	tables := nonEmptySheets(wb)
	if len(tables) == 0 {
		return nil, tabular.NewEmptyInputError("no valid data found in sheets")
	}

	chunks, err := Split(Concat(tables), rowsPerSheet)
	if err != nil {
		return nil, err
	}
	out := tabular.NewWorkbook()
	for i, chunk := range chunks {
		if err := out.Add("Sheet_"+strconv.Itoa(i+1), chunk); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RenameSheets renames every sheet, positionally. The replacement list
// must cover every sheet exactly, and each name must be non-empty and
// fit the container's length limit.
func RenameSheets(wb *tabular.Workbook, names []string) (*tabular.Workbook, error) {
	if len(names) != wb.Len() {
		return nil, tabular.NewInvalidParameterErrorf(
			"number of new names must match number of sheets (got %d names for %d sheets)", len(names), wb.Len())
	}
	out := tabular.NewWorkbook()
	for i, name := range names {
		if strings.TrimSpace(name) == "" || len(name) > MaxSheetNameLength {
			return nil, tabular.NewInvalidParameterErrorf("invalid sheet name: %q", name)
		}
		_, t, _ := wb.SheetAt(i)
		if err := out.Add(name, t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReorderSheets rebuilds the workbook in the order given. Entries
// address sheets by name or by zero-based index, and the order must be
// a permutation of the existing sheets.
func ReorderSheets(wb *tabular.Workbook, order []string) (*tabular.Workbook, error) {
	if len(order) != wb.Len() {
		return nil, tabular.NewInvalidOrderError("sheet order must include all sheets exactly once")
	}
	out := tabular.NewWorkbook()
	for _, ref := range order {
		name, t, ok := resolveSheet(wb, ref)
		if !ok {
			return nil, tabular.NewInvalidOrderErrorf("invalid sheet name or index: %s", ref)
		}
		if err := out.Add(name, t); err != nil {
			return nil, tabular.NewInvalidOrderError("sheet order must include all sheets exactly once")
		}
	}
	return out, nil
}

// CopySheets adds the selected sheets of a source workbook to a target
// workbook. The target keeps all of its own sheets; copied sheets that
// collide with an existing name get a numeric suffix.
func CopySheets(source, target *tabular.Workbook, selectors []string) (*tabular.Workbook, error) {
	out := tabular.NewWorkbook()
	for i := 0; i < target.Len(); i++ {
		name, t, _ := target.SheetAt(i)
		if err := out.Add(name, t); err != nil {
			return nil, err
		}
	}
	for _, ref := range selectors {
		name, t, ok := resolveSheet(source, ref)
		if !ok {
			return nil, tabular.NewSheetNotFoundError(ref)
		}
		if err := out.Add(freeSheetName(out, name), t.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func nonEmptySheets(wb *tabular.Workbook) []*tabular.Table {
	var tables []*tabular.Table
	for i := 0; i < wb.Len(); i++ {
		if _, t, _ := wb.SheetAt(i); !t.Empty() {
			tables = append(tables, t)
		}
	}
	return tables
}

// resolveSheet finds a sheet by exact name, falling back to a decimal
// zero-based index.
func resolveSheet(wb *tabular.Workbook, ref string) (string, *tabular.Table, bool) {
	if t, ok := wb.Sheet(ref); ok {
		return ref, t, true
	}
	if i, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil && i >= 0 && i < wb.Len() {
		name, t, _ := wb.SheetAt(i)
		return name, t, true
	}
	return "", nil, false
}

// freeSheetName returns name, or name with a numeric suffix when taken,
// trimming the base as needed to stay within the length limit.
func freeSheetName(wb *tabular.Workbook, name string) string {
	if _, taken := wb.Sheet(name); !taken {
		return name
	}
	for i := 1; ; i++ {
		suffix := "_" + strconv.Itoa(i)
		base := name
		if len(base)+len(suffix) > MaxSheetNameLength {
			base = base[:MaxSheetNameLength-len(suffix)]
		}
		candidate := base + suffix
		if _, taken := wb.Sheet(candidate); !taken {
			return candidate
		}
	}
}
