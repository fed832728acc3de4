package codec

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func decodeCSV(data []byte, opts DecodeOptions) (*tabular.Table, error) {
	if len(data) == 0 {
		return nil, tabular.NewEmptyInputError("empty input")
	}

	// Spreadsheet exports routinely carry a UTF-8 byte order mark.
	stripped, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return nil, tabular.WrapFormatError("not valid UTF-8 text", err)
	}

	text := string(stripped)
	if opts.Strict {
		if strings.TrimSpace(text) == "" || !strings.Contains(text, ",") {
			return nil, tabular.NewFormatError("not a valid CSV: no separator found")
		}
	}

	r := csv.NewReader(strings.NewReader(text))
	header, err := r.Read()
	if err == io.EOF {
		return nil, tabular.NewEmptyInputError("empty input")
	}
	if err != nil {
		return nil, tabular.WrapFormatError("not a valid CSV", err)
	}

	t := tabular.NewTable(tabular.DedupeColumns(header)...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, tabular.WrapFormatError("not a valid CSV", err)
		}
		cells := make([]tabular.Value, len(record))
		for i, field := range record {
			cells[i] = parseCell(field)
		}
		t.AppendRow(cells...)
	}
	return t, nil
}

func encodeCSV(t *tabular.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = cell.Text()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
