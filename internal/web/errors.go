package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// errorResponse is the JSON envelope for every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    int    `json:"code"`
}

// actions maps an error kind to a remediation hint for the caller.
var actions = map[tabular.Kind]string{
	tabular.KindFormat:             "check that the file content matches its extension and the declared format",
	tabular.KindEmptyInput:         "upload files that contain at least one data row",
	tabular.KindSchema:             "align the column sets of the uploaded sources or disable schema validation",
	tabular.KindColumnNotFound:     "check the column name against the file header",
	tabular.KindUnsupportedType:    "use one of the supported target types: int, float, str",
	tabular.KindUnsupportedFormula: "use uppercase(column) or column * number",
	tabular.KindInvalidCondition:   "write the condition as column > number, column < number or column == value",
	tabular.KindInvalidRange:       "keep start and end within the table and start before end",
	tabular.KindInvalidParameter:   "fix the request parameters and retry",
	tabular.KindSheetNotFound:      "check the sheet selector against the workbook's sheet names",
	tabular.KindInvalidOrder:       "list every existing sheet exactly once",
}

// error writes the envelope for err. Engine errors carry their kind and
// map to 400; oversized bodies map to 413; anything else is a 500.
func (h *Handlers) error(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		writeError(w, errorResponse{
			Error:   "payload_too_large",
			Message: "the upload exceeds the size limit",
			Action:  "keep the request below the size cap",
			Code:    http.StatusRequestEntityTooLarge,
		})
		return
	}
	if kind, ok := tabular.KindOf(err); ok {
		writeError(w, errorResponse{
			Error:   string(kind),
			Message: err.Error(),
			Action:  actions[kind],
			Code:    http.StatusBadRequest,
		})
		return
	}
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, errorResponse{
		Error:   "internal",
		Message: "internal server error",
		Code:    http.StatusInternalServerError,
	})
}

func writeError(w http.ResponseWriter, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_ = json.NewEncoder(w).Encode(resp)
}
