// Package engine orchestrates the tabular pipelines: decode uploaded
// bytes, run the requested operations, and encode the results into
// downloadable artifacts. Every operation is synchronous and owns its
// inputs for the duration of one call; the engine keeps no state
// between calls.
package engine

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tabforge-labs/tabforge/internal/assemble"
	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/schema"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Engine runs tabular operations.
type Engine struct {
	logger *slog.Logger
	strict bool
}

// Config holds engine configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Strict enables the per-format sanity checks on decode.
	Strict bool
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger, strict: cfg.Strict}
}

// File is one uploaded input.
type File struct {
	Name string
	Data []byte
}

// Artifact is one produced output.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Options carries the per-request knobs shared by most operations.
type Options struct {
	// Validate runs the schema validator over the operation's natural
	// grouping (sheets of a workbook, files of a batch) before rows
	// are combined or written.
	Validate bool
	// Password locks the workbook structure of excel output. Formats
	// that cannot honor a password ignore it.
	Password string
}

// ZipContentType labels multi-output archives.
const ZipContentType = "application/zip"

func (e *Engine) opLogger(op string) *slog.Logger {
	return e.logger.With("op", op, "run_id", uuid.NewString())
}

func (e *Engine) decodeOptions() codec.DecodeOptions {
	return codec.DecodeOptions{Strict: e.strict}
}

// decodeFlat decodes one file into a single table. Workbooks flatten:
// every non-empty sheet concatenates in sheet order, which is how the
// single-table operations treat multi-sheet input.
func (e *Engine) decodeFlat(f codec.Format, file File, validate bool) (*tabular.Table, error) {
	if f != codec.Excel {
		return codec.DecodeTable(f, file.Data, e.decodeOptions())
	}
	wb, err := codec.DecodeWorkbook(f, file.Data, e.decodeOptions())
	if err != nil {
		return nil, err
	}
	if validate {
		if err := schema.Validate(sheetSources(file.Name, wb)); err != nil {
			return nil, err
		}
	}
	var tables []*tabular.Table
	for i := 0; i < wb.Len(); i++ {
		if _, t, _ := wb.SheetAt(i); !t.Empty() {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		// Keep the first sheet's column structure so callers can tell
		// an empty workbook apart from a decode failure.
		_, first, _ := wb.SheetAt(0)
		return first, nil
	}
	return assemble.Concat(tables), nil
}

// decodeSpreadsheet decodes a file that must be a spreadsheet, the
// precondition of every sheet-level operation.
func (e *Engine) decodeSpreadsheet(file File, validate bool) (*tabular.Workbook, error) {
	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return nil, err
	}
	if f != codec.Excel {
		return nil, tabular.NewInvalidParameterError("only excel files are supported for sheet operations")
	}
	wb, err := codec.DecodeWorkbook(f, file.Data, e.decodeOptions())
	if err != nil {
		return nil, err
	}
	if validate {
		if err := schema.Validate(sheetSources(file.Name, wb)); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// sheetSources labels a workbook's sheets for schema validation.
func sheetSources(filename string, wb *tabular.Workbook) []schema.Source {
	sources := make([]schema.Source, 0, wb.Len())
	for i := 0; i < wb.Len(); i++ {
		name, t, _ := wb.SheetAt(i)
		sources = append(sources, schema.Source{Name: filename + ":" + name, Table: t})
	}
	return sources
}

// encodeTable encodes a table, forwarding the password only to formats
// that can honor it.
func encodeTable(f codec.Format, t *tabular.Table, opts codec.EncodeOptions) ([]byte, error) {
	if f != codec.Excel {
		opts.Password = ""
	}
	return codec.EncodeTable(f, t, opts)
}

// encodeWorkbook writes a workbook as an excel file.
func encodeWorkbook(wb *tabular.Workbook, password string) ([]byte, error) {
	return codec.EncodeWorkbook(codec.Excel, wb, codec.EncodeOptions{Password: password})
}

// checkExtension verifies that a file name's extension belongs to the
// declared format family.
func checkExtension(f codec.Format, filename string) error {
	if !f.MatchesFilename(filename) {
		return tabular.NewFormatErrorf("file extension of %q does not match format %s", filename, f)
	}
	return nil
}

// stem returns the file name without its final extension.
func stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// extension returns the file name's final extension without the dot.
func extension(filename string) string {
	return strings.TrimPrefix(filepath.Ext(filename), ".")
}
