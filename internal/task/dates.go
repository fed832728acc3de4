package task

import (
	"strings"

	"github.com/araddon/dateparse"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// DefaultDatePattern is the output pattern normalize_dates falls back to.
const DefaultDatePattern = "YYYY-MM-DD"

// layoutReplacer translates output patterns into Go reference layouts.
// Both strftime directives and the spelled-out token style are
// accepted, so "%Y-%m-%d" and "YYYY-MM-DD" mean the same thing.
var layoutReplacer = strings.NewReplacer(
	"%Y", "2006", "%m", "01", "%d", "02",
	"%H", "15", "%M", "04", "%S", "05",
	"YYYY", "2006", "MM", "01", "DD", "02",
	"HH", "15", "mm", "04", "SS", "05",
)

func dateLayout(pattern string) string {
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	return layoutReplacer.Replace(pattern)
}

// normalizeDates re-renders a text column as dates. Parsing is
// best-effort across common layouts; cells that do not parse, and
// non-text cells, become null.
func normalizeDates(t *tabular.Table, params *DateParams) error {
	if params.Column == "" {
		return tabular.NewInvalidParameterError("date column is required")
	}
	ci := t.ColumnIndex(params.Column)
	if ci < 0 {
		return tabular.NewColumnNotFoundError(params.Column)
	}
	layout := dateLayout(params.Format)
	for _, row := range t.Rows {
		if row[ci].Kind() != tabular.KindText {
			row[ci] = tabular.Null()
			continue
		}
		parsed, err := dateparse.ParseAny(strings.TrimSpace(row[ci].AsText()))
		if err != nil {
			row[ci] = tabular.Null()
			continue
		}
		row[ci] = tabular.Text(parsed.Format(layout))
	}
	return nil
}
