package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// decodeJSON reads an array of records. Key order of the first
// appearance fixes the column order; records missing a key decode that
// cell as null. Nested arrays and objects decode to their compact JSON
// text. The token walk keeps key order, which encoding/json maps drop.
func decodeJSON(data []byte, _ DecodeOptions) (*tabular.Table, error) {
	if len(data) == 0 {
		return nil, tabular.NewEmptyInputError("empty input")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, tabular.WrapFormatError("not valid JSON", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, tabular.NewFormatError("must contain an array of objects")
	}

	var (
		columns []string
		index   = map[string]int{}
		records []map[string]tabular.Value
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, tabular.WrapFormatError("not valid JSON", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, tabular.NewFormatError("must contain an array of objects")
		}
		record := make(map[string]tabular.Value)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, tabular.WrapFormatError("not valid JSON", err)
			}
			key := keyTok.(string)
			if _, seen := index[key]; !seen {
				index[key] = len(columns)
				columns = append(columns, key)
			}
			val, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			record[key] = val
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, tabular.WrapFormatError("not valid JSON", err)
		}
		records = append(records, record)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, tabular.WrapFormatError("not valid JSON", err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		return nil, tabular.NewFormatErrorf("trailing data after array: %v", tok)
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

// readJSONValue consumes one JSON value. Scalars become typed cells;
// composites re-render as compact JSON text (nested object keys come
// back sorted, the price of round-tripping through a map).
func readJSONValue(dec *json.Decoder) (tabular.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return tabular.Null(), tabular.WrapFormatError("not valid JSON", err)
	}
	switch v := tok.(type) {
	case json.Delim:
		composite, err := readJSONComposite(dec, v)
		if err != nil {
			return tabular.Null(), err
		}
		text, err := json.Marshal(composite)
		if err != nil {
			return tabular.Null(), tabular.WrapFormatError("not valid JSON", err)
		}
		return tabular.Text(string(text)), nil
	case string:
		return tabular.Text(v), nil
	case json.Number:
		return numberValue(v), nil
	case bool:
		return tabular.Bool(v), nil
	case nil:
		return tabular.Null(), nil
	default:
		return tabular.Null(), tabular.NewFormatErrorf("unexpected token %v", tok)
	}
}

func readJSONComposite(dec *json.Decoder, open json.Delim) (any, error) {
	switch open {
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, rawCell(v))
		}
		if _, err := dec.Token(); err != nil {
			return nil, tabular.WrapFormatError("not valid JSON", err)
		}
		return arr, nil
	case '{':
		obj := map[string]any{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, tabular.WrapFormatError("not valid JSON", err)
			}
			v, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj[keyTok.(string)] = rawCell(v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, tabular.WrapFormatError("not valid JSON", err)
		}
		return obj, nil
	default:
		return nil, tabular.NewFormatErrorf("unexpected delimiter %q", open)
	}
}

// rawCell converts a cell back to the dynamic form json.Marshal expects.
func rawCell(v tabular.Value) any {
	switch v.Kind() {
	case tabular.KindNull:
		return nil
	case tabular.KindBool:
		return v.AsBool()
	case tabular.KindInt:
		return v.AsInt()
	case tabular.KindFloat:
		return v.AsFloat()
	default:
		// Composite cells are already compact JSON; re-embed them as
		// raw messages so marshalling does not double-quote them.
		text := v.AsText()
		if len(text) > 0 && (text[0] == '[' || text[0] == '{') {
			return json.RawMessage(text)
		}
		return text
	}
}

func numberValue(n json.Number) tabular.Value {
	if i, err := n.Int64(); err == nil {
		return tabular.Int(i)
	}
	if f, err := n.Float64(); err == nil {
		return tabular.Float(f)
	}
	return tabular.Text(n.String())
}

// encodeJSON writes a two-space indented array of objects, keys in
// column order, nulls as JSON null.
func encodeJSON(t *tabular.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for ri, row := range t.Rows {
		if ri > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  {")
		for ci, col := range t.Columns {
			if ci > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString("\n    ")
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteString(": ")
			cell, err := marshalCell(row[ci])
			if err != nil {
				return nil, err
			}
			buf.Write(cell)
		}
		buf.WriteString("\n  }")
	}
	if len(t.Rows) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCell(v tabular.Value) ([]byte, error) {
	switch v.Kind() {
	case tabular.KindNull:
		return []byte("null"), nil
	case tabular.KindBool:
		return []byte(strconv.FormatBool(v.AsBool())), nil
	case tabular.KindInt:
		return []byte(strconv.FormatInt(v.AsInt(), 10)), nil
	case tabular.KindFloat:
		return []byte(strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)), nil
	default:
		return json.Marshal(v.AsText())
	}
}
