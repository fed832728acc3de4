package engine

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/task"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Extract runs the extraction pipeline over one file and re-encodes
// the result in its own format. Operation sets carrying an inspection
// or sheet-selection request dispatch to Metadata or ExtractSheets
// instead, which keeps the one-endpoint task contract working.
func (e *Engine) Extract(file File, set *task.Set, opts Options) (Artifact, error) {
	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return Artifact{}, err
	}
	if set.Metadata {
		return e.Metadata(file, opts)
	}
	if f == codec.Excel && set.ExtractSheets != nil {
		return e.ExtractSheets(file, set.ExtractSheets.Sheets, opts)
	}

	log := e.opLogger("extract")
	start := time.Now()

	t, err := e.firstSheet(f, file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	if t.Empty() {
		return Artifact{}, tabular.NewEmptyInputErrorf("selected sheet in %s is empty", file.Name)
	}

	if err := task.Extract(t, set); err != nil {
		return Artifact{}, err
	}

	data, err := encodeTable(f, t, codec.EncodeOptions{Password: opts.Password})
	if err != nil {
		return Artifact{}, err
	}

	log.Info("extract completed",
		"file", file.Name,
		"rows", t.NumRows(),
		"columns", t.NumColumns(),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{
		Name:        "extracted_" + file.Name,
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// Metadata reports a file's shape without transforming it: the sheet
// names and the first sheet's row and column counts. Flat formats are
// treated as a single sheet named Sheet1.
func (e *Engine) Metadata(file File, opts Options) (Artifact, error) {
	log := e.opLogger("metadata")
	start := time.Now()

	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return Artifact{}, err
	}

	var names []string
	var t *tabular.Table
	if f == codec.Excel {
		wb, err := e.decodeSpreadsheet(file, opts.Validate)
		if err != nil {
			return Artifact{}, err
		}
		names = wb.Names()
		_, t, _ = wb.SheetAt(0)
	} else {
		t, err = codec.DecodeTable(f, file.Data, e.decodeOptions())
		if err != nil {
			return Artifact{}, err
		}
		names = []string{codec.DefaultSheet}
	}

	body, err := json.Marshal(struct {
		SheetNames  []string `json:"sheet_names"`
		RowCount    int      `json:"row_count"`
		ColumnCount int      `json:"column_count"`
	}{names, t.NumRows(), t.NumColumns()})
	if err != nil {
		return Artifact{}, err
	}

	log.Info("metadata completed",
		"file", file.Name,
		"sheets", len(names),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{
		Name:        "metadata_" + stem(file.Name) + ".json",
		ContentType: codec.JSON.ContentType(),
		Data:        body,
	}, nil
}

// ExtractSheets builds a new workbook from the selected sheets of a
// spreadsheet. Selectors are sheet names, or zero-based decimal
// indices for sheets addressed by position; the latter are written
// under the name Sheet_<index>.
func (e *Engine) ExtractSheets(file File, sheets []string, opts Options) (Artifact, error) {
	log := e.opLogger("extract_sheets")
	start := time.Now()

	if len(sheets) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("at least one sheet is required")
	}
	wb, err := e.decodeSpreadsheet(file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}

	out := tabular.NewWorkbook()
	for _, ref := range sheets {
		if t, ok := wb.Sheet(ref); ok {
			if err := out.Add(ref, t.Clone()); err != nil {
				return Artifact{}, err
			}
			continue
		}
		if i, convErr := strconv.Atoi(ref); convErr == nil && i >= 0 && i < wb.Len() {
			_, t, _ := wb.SheetAt(i)
			if err := out.Add("Sheet_"+ref, t.Clone()); err != nil {
				return Artifact{}, err
			}
			continue
		}
		return Artifact{}, tabular.NewSheetNotFoundError(ref)
	}

	data, err := encodeWorkbook(out, opts.Password)
	if err != nil {
		return Artifact{}, err
	}

	log.Info("extract sheets completed",
		"file", file.Name,
		"sheets", len(sheets),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{
		Name:        "extracted_sheets_" + file.Name,
		ContentType: codec.Excel.ContentType(),
		Data:        data,
	}, nil
}

// firstSheet decodes one file into a single table, taking the first
// sheet when the file is a workbook.
func (e *Engine) firstSheet(f codec.Format, file File, validate bool) (*tabular.Table, error) {
	if f != codec.Excel {
		return codec.DecodeTable(f, file.Data, e.decodeOptions())
	}
	wb, err := e.decodeSpreadsheet(file, validate)
	if err != nil {
		return nil, err
	}
	_, t, _ := wb.SheetAt(0)
	return t, nil
}
