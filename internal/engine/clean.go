package engine

import (
	"fmt"
	"time"

	"github.com/tabforge-labs/tabforge/internal/archive"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/schema"
	"github.com/tabforge-labs/tabforge/internal/task"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Clean runs the cleaning pipeline over one file and re-encodes it in
// its own format. Excel input flattens its non-empty sheets into one
// table first, so the cleaned output is a single sheet.
func (e *Engine) Clean(file File, set *task.Set, opts Options) (Artifact, error) {
	log := e.opLogger("clean")
	start := time.Now()

	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return Artifact{}, err
	}

	t, err := e.decodeFlat(f, file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	if t.Empty() {
		return Artifact{}, tabular.NewEmptyInputErrorf("file %s is empty", file.Name)
	}

	if err := task.Clean(t, set); err != nil {
		return Artifact{}, err
	}

	data, err := encodeTable(f, t, codec.EncodeOptions{Password: opts.Password})
	if err != nil {
		return Artifact{}, err
	}

	log.Info("clean completed",
		"file", file.Name,
		"rows", t.NumRows(),
		"columns", t.NumColumns(),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{
		Name:        "cleaned_" + file.Name,
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// BatchClean cleans every file with one shared operation set and
// packages the results into a zip, each entry keeping its source
// format. Files that decode to zero rows are skipped with a warning.
func (e *Engine) BatchClean(files []File, set *task.Set, opts Options) (Artifact, error) {
	log := e.opLogger("batch_clean")
	start := time.Now()

	if len(files) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("at least one file is required")
	}

	zip := archive.New()
	var cleaned []schema.Source
	for i, file := range files {
		f, err := codec.FromFilename(file.Name)
		if err != nil {
			return Artifact{}, err
		}
		t, err := e.decodeFlat(f, file, opts.Validate)
		if err != nil {
			return Artifact{}, err
		}
		if t.Empty() {
			log.Warn("skipping empty file", "file", file.Name)
			continue
		}
		if err := task.Clean(t, set); err != nil {
			return Artifact{}, err
		}
		cleaned = append(cleaned, schema.Source{Name: file.Name, Table: t})

		data, err := encodeTable(f, t, codec.EncodeOptions{Password: opts.Password})
		if err != nil {
			return Artifact{}, err
		}
		entry := fmt.Sprintf("cleaned_%d.%s", i, extension(file.Name))
		if err := zip.Add(entry, data); err != nil {
			return Artifact{}, err
		}
	}
	if zip.Len() == 0 {
		return Artifact{}, tabular.NewEmptyInputError("no valid data found in the uploaded files")
	}
	if opts.Validate {
		if err := schema.Validate(cleaned); err != nil {
			return Artifact{}, err
		}
	}

	data, err := zip.Finalize()
	if err != nil {
		return Artifact{}, err
	}

	log.Info("batch clean completed",
		"files", len(files),
		"cleaned", len(cleaned),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{Name: "batch_cleaned_files.zip", ContentType: ZipContentType, Data: data}, nil
}
