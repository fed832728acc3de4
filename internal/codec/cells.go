package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// parseCell infers the cell value from its raw text form, as found in
// delimited text and spreadsheet cells. The empty string is null; then
// integer, float, and boolean literals are tried in that order, and
// anything else stays text. Surrounding whitespace is tolerated for the
// literal checks but preserved in the text fallback.
func parseCell(s string) tabular.Value {
	if s == "" {
		return tabular.Null()
	}
	t := strings.TrimSpace(s)
	if t == "" {
		return tabular.Text(s)
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return tabular.Int(i)
	}
	// NaN and the infinities parse as floats but have no place in the
	// value model (they break comparability and JSON encoding), so
	// "nan" and friends stay text.
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return tabular.Float(f)
	}
	switch t {
	case "true", "True", "TRUE":
		return tabular.Bool(true)
	case "false", "False", "FALSE":
		return tabular.Bool(false)
	}
	return tabular.Text(s)
}
