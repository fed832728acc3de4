package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/engine"
	"github.com/tabforge-labs/tabforge/internal/task"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Handlers provides the HTTP handlers for every engine operation.
type Handlers struct {
	engine    *engine.Engine
	maxUpload int64
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(e *engine.Engine, maxUpload int64, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{engine: e, maxUpload: maxUpload, logger: logger}
}

// Convert re-encodes one upload into a different format.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	from, err := codec.ParseFormat(r.FormValue("input_format"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	to, err := codec.ParseFormat(r.FormValue("output_format"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.Convert(file, from, to, options(r)))
}

// Merge concatenates the uploads into one table in the first upload's
// format family.
func (h *Handlers) Merge(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	files, err := formFiles(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.Merge(files, options(r)))
}

// Split partitions one upload into a zip of row chunks.
func (h *Handlers) Split(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	rows, err := formInt(r, "rows_per_file")
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.Split(file, rows, options(r)))
}

// Clean runs a cleaning operation set over one upload.
func (h *Handlers) Clean(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	set, err := formTasks(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.Clean(file, set, options(r)))
}

// Extract runs an extraction operation set over one upload.
func (h *Handlers) Extract(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	set, err := formTasks(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	art, err := h.engine.Extract(file, set, options(r))
	if err != nil {
		h.error(w, r, err)
		return
	}
	// Metadata requests answer inline rather than as a download.
	if set.Metadata {
		writeInline(w, art)
		return
	}
	writeArtifact(w, art)
}

// Metadata reports an upload's sheet names and first-sheet shape.
func (h *Handlers) Metadata(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	art, err := h.engine.Metadata(file, options(r))
	if err != nil {
		h.error(w, r, err)
		return
	}
	writeInline(w, art)
}

// ExtractSheets builds a workbook from the selected sheets of one
// upload.
func (h *Handlers) ExtractSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	sheets, err := formStringList(r, "sheets")
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.ExtractSheets(file, sheets, options(r)))
}

// CombineSheets concatenates a workbook's sheets into one.
func (h *Handlers) CombineSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.CombineSheets(file, r.FormValue("target_sheet"), options(r)))
}

// SplitToSheets repartitions a workbook's rows into fixed-size sheets.
func (h *Handlers) SplitToSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	rows, err := formInt(r, "rows_per_sheet")
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.SplitToSheets(file, rows, options(r)))
}

// RenameSheets renames a workbook's sheets positionally.
func (h *Handlers) RenameSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	names, err := formStringList(r, "names")
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.RenameSheets(file, names, options(r)))
}

// ReorderSheets rebuilds a workbook in the requested sheet order.
func (h *Handlers) ReorderSheets(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	file, err := singleFile(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	order, err := formStringList(r, "order")
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.ReorderSheets(file, order, options(r)))
}

// CopySheets copies sheets from the first upload into the second.
func (h *Handlers) CopySheets(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	files, err := formFiles(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	if len(files) != 2 {
		h.error(w, r, tabular.NewInvalidParameterError("exactly two files required (source and target)"))
		return
	}
	sheets, err := formStringList(r, "sheets")
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.CopySheets(files[0], files[1], sheets, options(r)))
}

// BulkRename archives the uploads under names derived from a pattern.
func (h *Handlers) BulkRename(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	files, err := formFiles(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	pattern := r.FormValue("pattern")
	if pattern == "" {
		pattern = r.FormValue("rename_pattern")
	}
	h.respond(w, r)(h.engine.BulkRename(files, pattern))
}

// BulkCompress archives the uploads as-is.
func (h *Handlers) BulkCompress(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	files, err := formFiles(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.BulkCompress(files))
}

// BatchConvert converts every upload to the target format.
func (h *Handlers) BatchConvert(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	files, err := formFiles(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	from, err := codec.ParseFormat(r.FormValue("input_format"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	to, err := codec.ParseFormat(r.FormValue("output_format"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.BatchConvert(files, from, to, options(r)))
}

// BatchClean cleans every upload with one shared operation set.
func (h *Handlers) BatchClean(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.error(w, r, err)
		return
	}
	files, err := formFiles(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	set, err := formTasks(r)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.respond(w, r)(h.engine.BatchClean(files, set, options(r)))
}

// parseForm caps the request body and parses the multipart form.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	return r.ParseMultipartForm(h.maxUpload)
}

// respond streams the artifact as an attachment, or maps the error.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request) func(engine.Artifact, error) {
	return func(a engine.Artifact, err error) {
		if err != nil {
			h.error(w, r, err)
			return
		}
		writeArtifact(w, a)
	}
}

// formFiles collects the uploads of the repeated files field, accepting
// the single-file field as a fallback.
func formFiles(r *http.Request) ([]engine.File, error) {
	if r.MultipartForm == nil {
		return nil, tabular.NewInvalidParameterError("no file provided")
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		return nil, tabular.NewInvalidParameterError("no file provided")
	}
	files := make([]engine.File, 0, len(headers))
	for _, fh := range headers {
		file, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// singleFile requires exactly one upload.
func singleFile(r *http.Request) (engine.File, error) {
	files, err := formFiles(r)
	if err != nil {
		return engine.File{}, err
	}
	if len(files) != 1 {
		return engine.File{}, tabular.NewInvalidParameterError("exactly one file must be provided")
	}
	return files[0], nil
}

func readUpload(fh *multipart.FileHeader) (engine.File, error) {
	f, err := fh.Open()
	if err != nil {
		return engine.File{}, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return engine.File{}, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	return engine.File{Name: fh.Filename, Data: data}, nil
}

// formTasks parses the required tasks field into an operation set.
func formTasks(r *http.Request) (*task.Set, error) {
	raw := strings.TrimSpace(r.FormValue("tasks"))
	if raw == "" {
		return nil, tabular.NewInvalidParameterError("tasks form field is required")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, tabular.NewInvalidParameterError("invalid tasks JSON")
	}
	return task.ParseSet(payload)
}

// formStringList parses a JSON array form field.
func formStringList(r *http.Request, field string) ([]string, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, tabular.NewInvalidParameterErrorf("invalid %s: expected a JSON array of strings", field)
	}
	return list, nil
}

// formInt parses a required integer form field.
func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, tabular.NewInvalidParameterErrorf("%s is required", field)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, tabular.NewInvalidParameterErrorf("%s must be a number", field)
	}
	return n, nil
}

// options reads the per-request knobs shared by most operations.
func options(r *http.Request) engine.Options {
	validate, _ := strconv.ParseBool(r.FormValue("validate_schema"))
	return engine.Options{Validate: validate, Password: r.FormValue("password")}
}

// writeArtifact streams one produced artifact as a download.
func writeArtifact(w http.ResponseWriter, a engine.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	_, _ = w.Write(a.Data)
}

// writeInline answers with the artifact body, without forcing a
// download.
func writeInline(w http.ResponseWriter, a engine.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	_, _ = w.Write(a.Data)
}
