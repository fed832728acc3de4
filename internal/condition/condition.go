// Package condition evaluates row predicates written as Starlark
// expressions, with table columns bound as variables.
package condition

import (
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// reserved are names the expression language claims for itself. Columns
// shadowing them stay unbound rather than fighting the resolver.
var reserved = map[string]bool{
	"and": true, "break": true, "continue": true, "def": true,
	"elif": true, "else": true, "for": true, "if": true, "in": true,
	"lambda": true, "load": true, "not": true, "or": true, "pass": true,
	"return": true, "while": true,
	"None": true, "True": true, "False": true,
}

// Evaluator holds one compiled predicate. It is not safe for
// concurrent use, the Starlark thread is reused across rows.
type Evaluator struct {
	expr   string
	parsed syntax.Expr
	thread *starlark.Thread
}

// Compile parses a predicate once so it can run against many rows.
func Compile(expr string) (*Evaluator, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, tabular.NewInvalidConditionError(expr, "expression is empty")
	}
	parsed, err := syntax.ParseExpr("condition", expr, 0) //nolint:staticcheck // SA1019: will migrate to FileOptions later
	if err != nil {
		return nil, tabular.NewInvalidConditionError(expr, err.Error())
	}
	return &Evaluator{
		expr:   expr,
		parsed: parsed,
		thread: &starlark.Thread{
			Name: "condition",
			Print: func(_ *starlark.Thread, _ string) {
				// No-op for predicate execution
			},
		},
	}, nil
}

// Keep evaluates the predicate against every row and returns the
// indices of rows where it holds. The predicate must produce a
// boolean; anything else fails the whole evaluation.
func (e *Evaluator) Keep(t *tabular.Table) ([]int, error) {
	bindable := make([]int, 0, len(t.Columns))
	for i, col := range t.Columns {
		if bindableName(col) {
			bindable = append(bindable, i)
		}
	}

	keep := []int{}
	globals := make(starlark.StringDict, len(bindable))
	for ri, row := range t.Rows {
		for _, ci := range bindable {
			globals[t.Columns[ci]] = cellToStarlark(row[ci])
		}
		result, err := starlark.EvalExpr(e.thread, e.parsed, globals) //nolint:staticcheck // SA1019: will migrate to EvalExprOptions later
		if err != nil {
			return nil, tabular.NewInvalidConditionError(e.expr, err.Error())
		}
		ok, isBool := result.(starlark.Bool)
		if !isBool {
			return nil, tabular.NewInvalidConditionError(e.expr, "expression must evaluate to a boolean")
		}
		if bool(ok) {
			keep = append(keep, ri)
		}
	}
	return keep, nil
}

// Keep compiles and runs a predicate in one shot.
func Keep(t *tabular.Table, expr string) ([]int, error) {
	ev, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return ev.Keep(t)
}

// cellToStarlark converts one cell into its Starlark counterpart.
func cellToStarlark(v tabular.Value) starlark.Value {
	switch v.Kind() {
	case tabular.KindNull:
		return starlark.None
	case tabular.KindBool:
		return starlark.Bool(v.AsBool())
	case tabular.KindInt:
		return starlark.MakeInt64(v.AsInt())
	case tabular.KindFloat:
		return starlark.Float(v.AsFloat())
	default:
		return starlark.String(v.AsText())
	}
}

// bindableName reports whether a column name can serve as a variable.
func bindableName(name string) bool {
	if name == "" || reserved[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
