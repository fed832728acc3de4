package engine

import (
	"fmt"
	"time"

	"github.com/tabforge-labs/tabforge/internal/archive"
	"github.com/tabforge-labs/tabforge/internal/assemble"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Split partitions one file into consecutive row chunks of at most
// rowsPerChunk rows, re-encodes every chunk in the input's own format
// and packages them into one zip. Spreadsheet inputs split per sheet,
// producing single-sheet workbooks; empty sheets are skipped.
func (e *Engine) Split(file File, rowsPerChunk int, opts Options) (Artifact, error) {
	log := e.opLogger("split")
	start := time.Now()

	if rowsPerChunk <= 0 {
		return Artifact{}, tabular.NewInvalidParameterError("rows per chunk must be greater than 0")
	}
	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return Artifact{}, err
	}

	zip := archive.New()
	if f == codec.Excel {
		wb, err := e.decodeSpreadsheet(file, opts.Validate)
		if err != nil {
			return Artifact{}, err
		}
		for i := 0; i < wb.Len(); i++ {
			name, t, _ := wb.SheetAt(i)
			if t.Empty() {
				log.Warn("skipping empty sheet", "file", file.Name, "sheet", name)
				continue
			}
			chunks, err := assemble.Split(t, rowsPerChunk)
			if err != nil {
				return Artifact{}, err
			}
			for j, chunk := range chunks {
				data, err := encodeTable(f, chunk, codec.EncodeOptions{Password: opts.Password})
				if err != nil {
					return Artifact{}, err
				}
				entry := fmt.Sprintf("split_%s_sheet_%s_part_%d.xlsx", file.Name, name, j+1)
				if err := zip.Add(entry, data); err != nil {
					return Artifact{}, err
				}
			}
		}
		if zip.Len() == 0 {
			return Artifact{}, tabular.NewEmptyInputErrorf("file %s is empty", file.Name)
		}
	} else {
		t, err := codec.DecodeTable(f, file.Data, e.decodeOptions())
		if err != nil {
			return Artifact{}, err
		}
		if t.Empty() {
			return Artifact{}, tabular.NewEmptyInputErrorf("file %s is empty", file.Name)
		}
		chunks, err := assemble.Split(t, rowsPerChunk)
		if err != nil {
			return Artifact{}, err
		}
		for j, chunk := range chunks {
			data, err := encodeTable(f, chunk, codec.EncodeOptions{})
			if err != nil {
				return Artifact{}, err
			}
			entry := fmt.Sprintf("split_%s_part_%d.%s", file.Name, j+1, f.Extension())
			if err := zip.Add(entry, data); err != nil {
				return Artifact{}, err
			}
		}
	}

	chunks := zip.Len()
	data, err := zip.Finalize()
	if err != nil {
		return Artifact{}, err
	}

	log.Info("split completed",
		"file", file.Name,
		"rows_per_chunk", rowsPerChunk,
		"chunks", chunks,
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{Name: "split_" + file.Name + ".zip", ContentType: ZipContentType, Data: data}, nil
}
