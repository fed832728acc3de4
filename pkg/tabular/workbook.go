package tabular

// Workbook is an ordered collection of named tables, modelling a
// multi-sheet spreadsheet container. Sheet names are unique and
// iteration order is insertion order; sheet-by-index addressing
// depends on that order being preserved end to end.
type Workbook struct {
	names  []string
	tables map[string]*Table
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{tables: make(map[string]*Table)}
}

// Add appends a sheet. Duplicate or empty names are rejected.
func (w *Workbook) Add(name string, t *Table) error {
	if name == "" {
		return NewInvalidParameterError("sheet name must not be empty")
	}
	if _, ok := w.tables[name]; ok {
		return NewInvalidParameterErrorf("duplicate sheet name %q", name)
	}
	w.names = append(w.names, name)
	w.tables[name] = t
	return nil
}

// Sheet returns the named table.
func (w *Workbook) Sheet(name string) (*Table, bool) {
	t, ok := w.tables[name]
	return t, ok
}

// SheetAt returns the sheet at the given zero-based position.
func (w *Workbook) SheetAt(i int) (string, *Table, bool) {
	if i < 0 || i >= len(w.names) {
		return "", nil, false
	}
	name := w.names[i]
	return name, w.tables[name], true
}

// Names returns the sheet names in order.
func (w *Workbook) Names() []string {
	return append([]string(nil), w.names...)
}

// Len returns the number of sheets.
func (w *Workbook) Len() int { return len(w.names) }
