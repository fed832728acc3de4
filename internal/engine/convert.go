package engine

import (
	"fmt"
	"time"

	"github.com/tabforge-labs/tabforge/internal/archive"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/schema"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Convert re-encodes one file into a different format. Excel input
// flattens its non-empty sheets into one table first.
func (e *Engine) Convert(file File, from, to codec.Format, opts Options) (Artifact, error) {
	log := e.opLogger("convert")
	start := time.Now()

	if from == to {
		return Artifact{}, tabular.NewInvalidParameterError("input and output formats must be different")
	}
	if err := checkExtension(from, file.Name); err != nil {
		return Artifact{}, err
	}

	t, err := e.decodeFlat(from, file, opts.Validate)
	if err != nil {
		return Artifact{}, err
	}
	if t.Empty() {
		return Artifact{}, tabular.NewEmptyInputErrorf("file %s is empty", file.Name)
	}

	data, err := encodeTable(to, t, codec.EncodeOptions{Password: opts.Password})
	if err != nil {
		return Artifact{}, err
	}

	log.Info("conversion completed",
		"file", file.Name,
		"from", string(from),
		"to", string(to),
		"rows", t.NumRows(),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{
		Name:        "converted_" + stem(file.Name) + "." + to.Extension(),
		ContentType: to.ContentType(),
		Data:        data,
	}, nil
}

// BatchConvert converts every file to the target format and packages
// the results into one zip. Files that decode to zero rows are skipped
// with a warning; an archive with no entries is an error.
func (e *Engine) BatchConvert(files []File, from, to codec.Format, opts Options) (Artifact, error) {
	log := e.opLogger("batch_convert")
	start := time.Now()

	if len(files) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("at least one file is required")
	}
	if from == to {
		return Artifact{}, tabular.NewInvalidParameterError("input and output formats must be different")
	}
	for _, file := range files {
		if err := checkExtension(from, file.Name); err != nil {
			return Artifact{}, err
		}
	}

	zip := archive.New()
	var sources []schema.Source
	for i, file := range files {
		t, err := e.decodeFlat(from, file, opts.Validate)
		if err != nil {
			return Artifact{}, err
		}
		if t.Empty() {
			log.Warn("skipping empty file", "file", file.Name)
			continue
		}
		sources = append(sources, schema.Source{Name: file.Name, Table: t})

		data, err := encodeTable(to, t, codec.EncodeOptions{Password: opts.Password})
		if err != nil {
			return Artifact{}, err
		}
		entry := fmt.Sprintf("converted_%d.%s", i, to.Extension())
		if err := zip.Add(entry, data); err != nil {
			return Artifact{}, err
		}
	}
	if zip.Len() == 0 {
		return Artifact{}, tabular.NewEmptyInputError("no valid data found in the uploaded files")
	}
	if opts.Validate {
		if err := schema.Validate(sources); err != nil {
			return Artifact{}, err
		}
	}

	data, err := zip.Finalize()
	if err != nil {
		return Artifact{}, err
	}

	log.Info("batch conversion completed",
		"files", len(files),
		"converted", len(sources),
		"from", string(from),
		"to", string(to),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{Name: "batch_converted_files.zip", ContentType: ZipContentType, Data: data}, nil
}
