// Package codec maps raw bytes to and from the tabular value model,
// one paired decoder/encoder per supported encoding.
package codec

import (
	"path/filepath"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Format names one supported tabular encoding.
type Format string

const (
	CSV   Format = "csv"
	Excel Format = "excel"
	JSON  Format = "json"
	XML   Format = "xml"
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{CSV, Excel, JSON, XML}
}

// ParseFormat resolves a format name as supplied by a caller.
// "xlsx" and "xls" are accepted as aliases for excel.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return CSV, nil
	case "excel", "xlsx", "xls":
		return Excel, nil
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	default:
		return "", tabular.NewFormatErrorf("invalid format %q (expected one of excel, csv, json, xml)", name)
	}
}

// FromFilename resolves the format from a file name's extension.
func FromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return CSV, nil
	case ".xlsx", ".xls":
		return Excel, nil
	case ".json":
		return JSON, nil
	case ".xml":
		return XML, nil
	default:
		return "", tabular.NewFormatErrorf("unsupported file type: %s", filename)
	}
}

// Extension returns the canonical output file extension, without the dot.
func (f Format) Extension() string {
	if f == Excel {
		return "xlsx"
	}
	return string(f)
}

// ContentType returns the MIME type transports label outputs with.
func (f Format) ContentType() string {
	switch f {
	case Excel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case CSV:
		return "text/csv"
	case JSON:
		return "application/json"
	case XML:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}

// MatchesFilename reports whether the file name's extension belongs to
// this format's family.
func (f Format) MatchesFilename(filename string) bool {
	got, err := FromFilename(filename)
	return err == nil && got == f
}

// DecodeOptions controls decoding.
type DecodeOptions struct {
	// Strict enables the per-format sanity check on top of structural
	// parsing (delimited text must contain a separator, every JSON
	// array element must be an object, record markup must carry
	// <record> children).
	Strict bool
	// Sheet selects one sheet by name. Only the excel decoder reads it;
	// empty means the whole workbook.
	Sheet string
}

// EncodeOptions controls encoding.
type EncodeOptions struct {
	// Sheet names the output sheet. Only the excel encoder reads it;
	// empty defaults to "Sheet1".
	Sheet string
	// Password locks the workbook structure with a workbook-level
	// password. Only the excel encoder supports it; other encoders
	// reject a non-empty password.
	Password string
}

// DefaultSheet is the sheet name used when EncodeOptions.Sheet is empty.
const DefaultSheet = "Sheet1"

// DecodeTable decodes data into a single table. For the excel format it
// returns the selected sheet, or the first sheet when no selector is
// given.
func DecodeTable(f Format, data []byte, opts DecodeOptions) (*tabular.Table, error) {
	switch f {
	case CSV:
		return decodeCSV(data, opts)
	case JSON:
		return decodeJSON(data, opts)
	case XML:
		return decodeXML(data, opts)
	case Excel:
		wb, err := decodeExcel(data, opts)
		if err != nil {
			return nil, err
		}
		return selectSheet(wb, opts.Sheet)
	default:
		return nil, tabular.NewFormatErrorf("unsupported format %q", f)
	}
}

// DecodeWorkbook decodes data into a workbook. Flat formats produce a
// single sheet named "Sheet1".
func DecodeWorkbook(f Format, data []byte, opts DecodeOptions) (*tabular.Workbook, error) {
	if f == Excel {
		return decodeExcel(data, opts)
	}
	t, err := DecodeTable(f, data, opts)
	if err != nil {
		return nil, err
	}
	wb := tabular.NewWorkbook()
	if err := wb.Add(DefaultSheet, t); err != nil {
		return nil, err
	}
	return wb, nil
}

// EncodeTable encodes a single table.
func EncodeTable(f Format, t *tabular.Table, opts EncodeOptions) ([]byte, error) {
	if f != Excel && opts.Password != "" {
		return nil, tabular.NewInvalidParameterErrorf("password protection is only supported for excel output, not %s", f)
	}
	switch f {
	case CSV:
		return encodeCSV(t)
	case JSON:
		return encodeJSON(t)
	case XML:
		return encodeXML(t)
	case Excel:
		sheet := opts.Sheet
		if sheet == "" {
			sheet = DefaultSheet
		}
		wb := tabular.NewWorkbook()
		if err := wb.Add(sheet, t); err != nil {
			return nil, err
		}
		return encodeExcel(wb, opts)
	default:
		return nil, tabular.NewFormatErrorf("unsupported format %q", f)
	}
}

// EncodeWorkbook encodes a whole workbook. Only the excel format can
// represent multiple sheets.
func EncodeWorkbook(f Format, wb *tabular.Workbook, opts EncodeOptions) ([]byte, error) {
	if f != Excel {
		return nil, tabular.NewInvalidParameterErrorf("format %s cannot represent multiple sheets", f)
	}
	return encodeExcel(wb, opts)
}
