package codec

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// decodeExcel reads every sheet of a workbook. Sheets keep their
// workbook order; a sheet without rows decodes as an empty table with
// no columns. excelize returns ragged rows, AppendRow pads them.
func decodeExcel(data []byte, _ DecodeOptions) (*tabular.Workbook, error) {
	if len(data) == 0 {
		return nil, tabular.NewEmptyInputError("empty input")
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, tabular.WrapFormatError("not a valid Excel workbook", err)
	}
	defer f.Close()

	wb := tabular.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, tabular.WrapFormatError("not a valid Excel workbook", err)
		}
		t := sheetTable(rows)
		if err := wb.Add(name, t); err != nil {
			return nil, err
		}
	}
	if wb.Len() == 0 {
		return nil, tabular.NewFormatError("workbook has no sheets")
	}
	return wb, nil
}

func sheetTable(rows [][]string) *tabular.Table {
	if len(rows) == 0 {
		return tabular.NewTable()
	}
	t := tabular.NewTable(tabular.DedupeColumns(rows[0])...)
	for _, row := range rows[1:] {
		cells := make([]tabular.Value, len(row))
		for i, field := range row {
			cells[i] = parseCell(field)
		}
		t.AppendRow(cells...)
	}
	return t
}

// selectSheet resolves opts.Sheet against a decoded workbook. An empty
// selector means the first sheet.
func selectSheet(wb *tabular.Workbook, selector string) (*tabular.Table, error) {
	if selector == "" {
		_, t, ok := wb.SheetAt(0)
		if !ok {
			return nil, tabular.NewEmptyInputError("workbook has no sheets")
		}
		return t, nil
	}
	t, ok := wb.Sheet(selector)
	if !ok {
		return nil, tabular.NewSheetNotFoundError(selector)
	}
	return t, nil
}

// encodeExcel writes a workbook, optionally locking its structure with
// a password. Cells keep their types: ints and floats become numeric
// cells, bools boolean cells, nulls stay blank.
func encodeExcel(wb *tabular.Workbook, opts EncodeOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i := 0; i < wb.Len(); i++ {
		name, t, _ := wb.SheetAt(i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, t); err != nil {
			return nil, err
		}
	}

	if opts.Password != "" {
		err := f.ProtectWorkbook(&excelize.WorkbookProtectionOptions{
			Password:      opts.Password,
			LockStructure: true,
		})
		if err != nil {
			return nil, fmt.Errorf("protect workbook: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, t *tabular.Table) error {
	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for ri, row := range t.Rows {
		cells := make([]any, len(row))
		for ci, cell := range row {
			cells[ci] = excelCell(cell)
		}
		addr, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return fmt.Errorf("cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", ri+2, err)
		}
	}
	return nil
}

func excelCell(v tabular.Value) any {
	switch v.Kind() {
	case tabular.KindNull:
		return nil
	case tabular.KindBool:
		return v.AsBool()
	case tabular.KindInt:
		return v.AsInt()
	case tabular.KindFloat:
		return v.AsFloat()
	default:
		return v.AsText()
	}
}
