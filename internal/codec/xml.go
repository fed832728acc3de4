package codec

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// decodeXML reads rows from the children of the document root. In
// strict mode only <record> children count; otherwise every child
// element is a row. Grandchild elements become cells keyed by tag, the
// last repeated tag wins. XML carries no type information, so cells
// decode as text, with empty elements as null.
func decodeXML(data []byte, opts DecodeOptions) (*tabular.Table, error) {
	if len(data) == 0 {
		return nil, tabular.NewEmptyInputError("empty input")
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	root, err := nextElement(dec)
	if err != nil {
		return nil, tabular.WrapFormatError("not valid XML", err)
	}
	if root == nil {
		return nil, tabular.NewFormatError("no root element")
	}

	var (
		columns []string
		index   = map[string]int{}
		records []map[string]tabular.Value
	)
	for {
		child, err := nextElement(dec)
		if err != nil {
			return nil, tabular.WrapFormatError("not valid XML", err)
		}
		if child == nil {
			break
		}
		if opts.Strict && child.Name.Local != "record" {
			if err := dec.Skip(); err != nil {
				return nil, tabular.WrapFormatError("not valid XML", err)
			}
			continue
		}
		record, err := decodeXMLRecord(dec)
		if err != nil {
			return nil, err
		}
		for _, field := range record.order {
			if _, seen := index[field]; !seen {
				index[field] = len(columns)
				columns = append(columns, field)
			}
		}
		records = append(records, record.cells)
	}
	if len(records) == 0 {
		return nil, tabular.NewFormatError("no record elements found")
	}

	t := tabular.NewTable(columns...)
	for _, record := range records {
		cells := make([]tabular.Value, len(columns))
		for i, col := range columns {
			if v, ok := record[col]; ok {
				cells[i] = v
			}
		}
		t.AppendRow(cells...)
	}
	return t, nil
}

type xmlRecord struct {
	order []string
	cells map[string]tabular.Value
}

// decodeXMLRecord consumes the children of an already-opened record
// element up to and including its end tag.
func decodeXMLRecord(dec *xml.Decoder) (*xmlRecord, error) {
	record := &xmlRecord{cells: map[string]tabular.Value{}}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, tabular.WrapFormatError("not valid XML", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var text string
			if err := dec.DecodeElement(&text, &el); err != nil {
				return nil, tabular.WrapFormatError("not valid XML", err)
			}
			name := el.Name.Local
			if _, seen := record.cells[name]; !seen {
				record.order = append(record.order, name)
			}
			if text == "" {
				record.cells[name] = tabular.Null()
			} else {
				record.cells[name] = tabular.Text(text)
			}
		case xml.EndElement:
			return record, nil
		}
	}
}

// nextElement advances to the next start element at the current depth,
// returning nil at the enclosing end tag or EOF.
func nextElement(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			return &el, nil
		case xml.EndElement:
			return nil, nil
		}
	}
}

// encodeXML writes <records> with one <record> per row. Null cells
// become empty elements, everything else renders canonically.
func encodeXML(t *tabular.Table) ([]byte, error) {
	for _, col := range t.Columns {
		if !validXMLName(col) {
			return nil, tabular.NewFormatErrorf("column %q is not a valid XML element name", col)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<records>")
	for _, row := range t.Rows {
		buf.WriteString("\n  <record>")
		for ci, col := range t.Columns {
			buf.WriteString("\n    <")
			buf.WriteString(col)
			buf.WriteByte('>')
			if !row[ci].IsNull() {
				if err := xml.EscapeText(&buf, []byte(row[ci].Text())); err != nil {
					return nil, err
				}
			}
			buf.WriteString("</")
			buf.WriteString(col)
			buf.WriteByte('>')
		}
		buf.WriteString("\n  </record>")
	}
	buf.WriteString("\n</records>\n")
	return buf.Bytes(), nil
}

// validXMLName reports whether s can serve as an element name. This is
// the pragmatic subset: letters, digits, '.', '-', '_' and ':', not
// starting with a digit, dot or hyphen.
func validXMLName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_':
		case r >= '0' && r <= '9' || r == '.' || r == '-' || r == ':':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
