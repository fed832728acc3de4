package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates the closed set of cell value types.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindText
)

// String returns the kind name as used in logs and type coercion errors.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single cell: null, bool, int, float, or text.
// The zero Value is null. Values are comparable, so they can be used
// directly as map keys (deduplication relies on this).
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind reports the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. Valid only for KindBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the integer payload. Valid only for KindInt.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the float payload. Valid only for KindFloat.
func (v Value) AsFloat() float64 { return v.f }

// AsText returns the text payload. Valid only for KindText.
func (v Value) AsText() string { return v.s }

// Text renders the canonical text form of the value. Null renders as the
// empty string, bools as "true"/"false", ints in base 10, and floats with
// strconv.FormatFloat(f, 'g', -1, 64). This is the single deterministic
// rendering rule used by every encoder.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Num returns the numeric view of the value and whether one exists.
// Bools count as 0/1 and numeric-looking text parses; everything else
// has no numeric view.
func (v Value) Num() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FromAny converts a dynamically typed value (as produced by JSON or YAML
// decoding) into a Value. Unknown types fall back to their text form.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Null()
		}
		// JSON decoding reports every number as float64; keep whole
		// numbers as ints so they render without a decimal point.
		if t >= math.MinInt64 && t < math.MaxInt64 && t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Float(t)
	case string:
		return Text(t)
	default:
		return Text(fmt.Sprint(t))
	}
}
