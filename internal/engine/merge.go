package engine

import (
	"time"

	"github.com/tabforge-labs/tabforge/internal/assemble"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// mergedSheet names the single sheet of a merged excel output.
const mergedSheet = "Merged"

// Merge concatenates two or more files into one table and encodes it
// in the first file's format. Spreadsheet inputs contribute one table
// per non-empty sheet, tagged with both source file and source sheet;
// flat inputs are tagged with the source file only.
func (e *Engine) Merge(files []File, opts Options) (Artifact, error) {
	log := e.opLogger("merge")
	start := time.Now()

	if len(files) < 2 {
		return Artifact{}, tabular.NewInvalidParameterError("at least two files are required for merging")
	}
	family, err := codec.FromFilename(files[0].Name)
	if err != nil {
		return Artifact{}, err
	}

	var inputs []assemble.Input
	for _, file := range files {
		f, err := codec.FromFilename(file.Name)
		if err != nil {
			return Artifact{}, err
		}
		if f == codec.Excel {
			wb, err := codec.DecodeWorkbook(f, file.Data, e.decodeOptions())
			if err != nil {
				return Artifact{}, err
			}
			for i := 0; i < wb.Len(); i++ {
				name, t, _ := wb.SheetAt(i)
				inputs = append(inputs, assemble.Input{Name: file.Name, Sheet: name, Table: t})
			}
			continue
		}
		t, err := codec.DecodeTable(f, file.Data, e.decodeOptions())
		if err != nil {
			return Artifact{}, err
		}
		inputs = append(inputs, assemble.Input{Name: file.Name, Table: t})
	}

	merged, err := assemble.Merge(inputs, opts.Validate, log)
	if err != nil {
		return Artifact{}, err
	}

	data, err := encodeTable(family, merged, codec.EncodeOptions{Sheet: mergedSheet, Password: opts.Password})
	if err != nil {
		return Artifact{}, err
	}

	log.Info("merge completed",
		"files", len(files),
		"rows", merged.NumRows(),
		"columns", merged.NumColumns(),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{
		Name:        "merged_" + string(family) + "." + family.Extension(),
		ContentType: family.ContentType(),
		Data:        data,
	}, nil
}
