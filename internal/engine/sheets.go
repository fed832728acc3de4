package engine

import (
	"time"

	"github.com/tabforge-labs/tabforge/internal/assemble"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// CombineSheets concatenates a workbook's non-empty sheets into a
// single sheet with the given name.
func (e *Engine) CombineSheets(file File, target string, opts Options) (Artifact, error) {
	log := e.opLogger("combine_sheets")
	start := time.Now()

	wb, err := e.decodeSpreadsheet(file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	out, err := assemble.CombineSheets(wb, target)
	if err != nil {
		return Artifact{}, err
	}

	data, err := encodeWorkbook(out, opts.Password)
	if err != nil {
		return Artifact{}, err
	}

	log.Info("combine sheets completed",
		"file", file.Name,
		"target", target,
		"duration_ms", time.Since(start).Milliseconds())
	return e.sheetArtifact("combined_sheets_"+file.Name, data), nil
}

// SplitToSheets repartitions a workbook's rows into fixed-size sheets.
func (e *Engine) SplitToSheets(file File, rowsPerSheet int, opts Options) (Artifact, error) {
	log := e.opLogger("split_to_sheets")
	start := time.Now()

	wb, err := e.decodeSpreadsheet(file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	out, err := assemble.SplitToSheets(wb, rowsPerSheet)
	if err != nil {
		return Artifact{}, err
	}

	data, err := encodeWorkbook(out, opts.Password)
	if err != nil {
		return Artifact{}, err
	}

	log.Info("split to sheets completed",
		"file", file.Name,
		"rows_per_sheet", rowsPerSheet,
		"sheets", out.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return e.sheetArtifact("split_sheets_"+file.Name, data), nil
}

// RenameSheets renames every sheet of a workbook, positionally.
func (e *Engine) RenameSheets(file File, names []string, opts Options) (Artifact, error) {
	log := e.opLogger("rename_sheets")
	start := time.Now()

	if len(names) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("sheet names are required")
	}
	wb, err := e.decodeSpreadsheet(file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	out, err := assemble.RenameSheets(wb, names)
	if err != nil {
		return Artifact{}, err
	}

	data, err := encodeWorkbook(out, opts.Password)
	if err != nil {
		return Artifact{}, err
	}

	log.Info("rename sheets completed",
		"file", file.Name,
		"sheets", out.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return e.sheetArtifact("renamed_sheets_"+file.Name, data), nil
}

// ReorderSheets rebuilds a workbook with its sheets in the given order.
// Order entries address sheets by name or by zero-based decimal index.
func (e *Engine) ReorderSheets(file File, order []string, opts Options) (Artifact, error) {
	log := e.opLogger("reorder_sheets")
	start := time.Now()

	if len(order) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("sheet order is required")
	}
	wb, err := e.decodeSpreadsheet(file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	out, err := assemble.ReorderSheets(wb, order)
	if err != nil {
		return Artifact{}, err
	}

	data, err := encodeWorkbook(out, opts.Password)
	if err != nil {
		return Artifact{}, err
	}

	log.Info("reorder sheets completed",
		"file", file.Name,
		"sheets", out.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return e.sheetArtifact("reordered_sheets_"+file.Name, data), nil
}

// CopySheets copies the selected sheets of a source workbook into a
// target workbook, after the target's own sheets. Selectors address
// source sheets by name or by zero-based decimal index.
func (e *Engine) CopySheets(source, target File, selectors []string, opts Options) (Artifact, error) {
	log := e.opLogger("copy_sheets")
	start := time.Now()

	if len(selectors) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("source sheets are required")
	}
	src, err := e.decodeSpreadsheet(source, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	dst, err := e.decodeSpreadsheet(target, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	out, err := assemble.CopySheets(src, dst, selectors)
	if err != nil {
		return Artifact{}, err
	}

	data, err := encodeWorkbook(out, opts.Password)
	if err != nil {
		return Artifact{}, err
	}

	log.Info("copy sheets completed",
		"source", source.Name,
		"target", target.Name,
		"copied", len(selectors),
		"duration_ms", time.Since(start).Milliseconds())
	return e.sheetArtifact("copied_sheets_"+target.Name, data), nil
}

func (e *Engine) sheetArtifact(name string, data []byte) Artifact {
	return Artifact{Name: name, ContentType: codec.Excel.ContentType(), Data: data}
}
