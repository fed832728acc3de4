package task

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// The two recognized formula grammars. Anything else is rejected, this
// is deliberately not an expression language.
var (
	uppercaseFormula = regexp.MustCompile(`^uppercase\((.+)\)$`)
	multiplyFormula  = regexp.MustCompile(`^(\w+)\s*\*\s*(\d+)$`)
)

// applyFormulas derives one column per entry, in sorted target-column
// order. A target that already exists is overwritten in place, new
// targets append to the right. Formulas see the table as it stands when
// they run, so a formula can only reference an earlier target by
// courtesy of sort order.
func applyFormulas(t *tabular.Table, formulas map[string]string) error {
	for _, target := range sortedKeys(formulas) {
		if err := applyFormula(t, target, formulas[target]); err != nil {
			return err
		}
	}
	return nil
}

func applyFormula(t *tabular.Table, target, formula string) error {
	var derive func(tabular.Value) tabular.Value
	var source string

	if m := uppercaseFormula.FindStringSubmatch(formula); m != nil {
		source = m[1]
		derive = uppercaseCell
	} else if m := multiplyFormula.FindStringSubmatch(formula); m != nil {
		source = m[1]
		factor, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return tabular.NewUnsupportedFormulaError(formula)
		}
		derive = func(v tabular.Value) tabular.Value { return multiplyCell(v, factor) }
	} else {
		return tabular.NewUnsupportedFormulaError(formula)
	}

	si := t.ColumnIndex(source)
	if si < 0 {
		return tabular.NewColumnNotFoundError(source)
	}

	ti := t.ColumnIndex(target)
	if ti < 0 {
		ti = len(t.Columns)
		t.Columns = append(t.Columns, target)
		for ri, row := range t.Rows {
			t.Rows[ri] = append(row, tabular.Null())
		}
	}
	for _, row := range t.Rows {
		row[ti] = derive(row[si])
	}
	return nil
}

func uppercaseCell(v tabular.Value) tabular.Value {
	if v.IsNull() {
		return tabular.Null()
	}
	return tabular.Text(strings.ToUpper(v.Text()))
}

// multiplyCell scales a numeric cell. Integer cells stay integers,
// numeric-looking text lands on whichever numeric kind its literal
// parses as, everything non-numeric becomes null.
func multiplyCell(v tabular.Value, factor int64) tabular.Value {
	switch v.Kind() {
	case tabular.KindInt:
		return tabular.Int(v.AsInt() * factor)
	case tabular.KindFloat:
		return tabular.Float(v.AsFloat() * float64(factor))
	case tabular.KindBool:
		if v.AsBool() {
			return tabular.Int(factor)
		}
		return tabular.Int(0)
	case tabular.KindText:
		text := strings.TrimSpace(v.AsText())
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return tabular.Int(i * factor)
		}
		if f, ok := v.Num(); ok {
			return tabular.Float(f * float64(factor))
		}
		return tabular.Null()
	default:
		return tabular.Null()
	}
}
