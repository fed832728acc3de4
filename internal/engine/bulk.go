package engine

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tabforge-labs/tabforge/internal/archive"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// validEntryName bounds the names BulkRename may write into the
// archive: word characters, dashes and dots only.
var validEntryName = regexp.MustCompile(`^[\w\-.]+$`)

// BulkRename archives every file under a new name derived from the
// pattern. {index} expands to the zero-based file position and
// {filename} to the file's stem; the original extension and bytes are
// kept as-is.
func (e *Engine) BulkRename(files []File, pattern string) (Artifact, error) {
	log := e.opLogger("bulk_rename")
	start := time.Now()

	if len(files) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("at least one file is required")
	}
	if pattern == "" {
		return Artifact{}, tabular.NewInvalidParameterError("rename pattern is required")
	}

	zip := archive.New()
	for i, file := range files {
		if err := e.checkArchivable(file); err != nil {
			return Artifact{}, err
		}
		name := strings.ReplaceAll(pattern, "{index}", strconv.Itoa(i))
		name = strings.ReplaceAll(name, "{filename}", stem(file.Name))
		name += "." + extension(file.Name)
		if !validEntryName.MatchString(name) {
			return Artifact{}, tabular.NewInvalidParameterErrorf("invalid characters in filename: %s", name)
		}
		if err := zip.Add(name, file.Data); err != nil {
			if errors.Is(err, archive.ErrDuplicateEntry) {
				return Artifact{}, tabular.NewInvalidParameterErrorf("pattern produces duplicate filename: %s", name)
			}
			return Artifact{}, err
		}
	}

	data, err := zip.Finalize()
	if err != nil {
		return Artifact{}, err
	}

	log.Info("bulk rename completed",
		"files", len(files),
		"pattern", pattern,
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{Name: "renamed_files.zip", ContentType: ZipContentType, Data: data}, nil
}

// BulkCompress archives every file as-is under its own name.
func (e *Engine) BulkCompress(files []File) (Artifact, error) {
	log := e.opLogger("bulk_compress")
	start := time.Now()

	if len(files) == 0 {
		return Artifact{}, tabular.NewInvalidParameterError("at least one file is required")
	}

	zip := archive.New()
	for _, file := range files {
		if err := e.checkArchivable(file); err != nil {
			return Artifact{}, err
		}
		if err := zip.Add(file.Name, file.Data); err != nil {
			if errors.Is(err, archive.ErrDuplicateEntry) {
				return Artifact{}, tabular.NewInvalidParameterErrorf("duplicate filename: %s", file.Name)
			}
			return Artifact{}, err
		}
	}

	data, err := zip.Finalize()
	if err != nil {
		return Artifact{}, err
	}

	log.Info("bulk compress completed",
		"files", len(files),
		"duration_ms", time.Since(start).Milliseconds())
	return Artifact{Name: "compressed_files.zip", ContentType: ZipContentType, Data: data}, nil
}

// checkArchivable admits only files of a supported family into bulk
// archives. Strict mode additionally decodes the file to verify it
// parses.
func (e *Engine) checkArchivable(file File) error {
	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return err
	}
	if !e.strict {
		return nil
	}
	if f == codec.Excel {
		_, err = codec.DecodeWorkbook(f, file.Data, e.decodeOptions())
	} else {
		_, err = codec.DecodeTable(f, file.Data, e.decodeOptions())
	}
	return err
}
