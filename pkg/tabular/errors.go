package tabular

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a tabular processing failure.
// Transports map kinds to client-facing status and remediation hints.
type Kind string

const (
	KindFormat             Kind = "format"
	KindEmptyInput         Kind = "empty_input"
	KindSchema             Kind = "schema"
	KindColumnNotFound     Kind = "column_not_found"
	KindUnsupportedType    Kind = "unsupported_type"
	KindUnsupportedFormula Kind = "unsupported_formula"
	KindInvalidCondition   Kind = "invalid_condition"
	KindInvalidRange       Kind = "invalid_range"
	KindInvalidParameter   Kind = "invalid_parameter"
	KindSheetNotFound      Kind = "sheet_not_found"
	KindInvalidOrder       Kind = "invalid_order"
)

// Error is the base interface for all tabular errors.
type Error interface {
	error
	Kind() Kind
}

// baseError provides common error functionality.
type baseError struct {
	kind Kind
	msg  string
}

func (e *baseError) Kind() Kind    { return e.kind }
func (e *baseError) Error() string { return e.msg }

// KindOf extracts the taxonomy kind from any error in err's chain.
// The second result is false when the error is not a tabular error.
func KindOf(err error) (Kind, bool) {
	var te Error
	if errors.As(err, &te) {
		return te.Kind(), true
	}
	return "", false
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// FormatError indicates bytes that do not match the claimed encoding,
// or a claimed-encoding/file-extension mismatch.
type FormatError struct {
	baseError
	Cause error
}

// NewFormatError creates a new format error.
func NewFormatError(msg string) *FormatError {
	return &FormatError{baseError: baseError{kind: KindFormat, msg: msg}}
}

// NewFormatErrorf creates a new format error with formatting.
func NewFormatErrorf(format string, args ...any) *FormatError {
	return &FormatError{baseError: baseError{kind: KindFormat, msg: fmt.Sprintf(format, args...)}}
}

// WrapFormatError wraps an underlying decode failure as a format error.
func WrapFormatError(msg string, cause error) *FormatError {
	return &FormatError{baseError: baseError{kind: KindFormat, msg: msg}, Cause: cause}
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.Cause)
	}
	return e.msg
}

func (e *FormatError) Unwrap() error { return e.Cause }

// EmptyInputError indicates a zero-length payload, or a zero-row result
// after a stage that is expected to produce rows.
type EmptyInputError struct {
	baseError
}

// NewEmptyInputError creates a new empty input error.
func NewEmptyInputError(msg string) *EmptyInputError {
	return &EmptyInputError{baseError{kind: KindEmptyInput, msg: msg}}
}

// NewEmptyInputErrorf creates a new empty input error with formatting.
func NewEmptyInputErrorf(format string, args ...any) *EmptyInputError {
	return &EmptyInputError{baseError{kind: KindEmptyInput, msg: fmt.Sprintf(format, args...)}}
}

// SchemaError indicates a cross-table column-set mismatch.
type SchemaError struct {
	baseError
	Tables []string // names of the tables involved in the mismatch
}

// NewSchemaError creates a new schema error naming the mismatched tables.
func NewSchemaError(msg string, tables []string) *SchemaError {
	return &SchemaError{baseError: baseError{kind: KindSchema, msg: msg}, Tables: tables}
}

// ColumnNotFoundError indicates a reference to a column the table lacks.
type ColumnNotFoundError struct {
	baseError
	Column string
}

// NewColumnNotFoundError creates a new column lookup error.
func NewColumnNotFoundError(column string) *ColumnNotFoundError {
	return &ColumnNotFoundError{
		baseError: baseError{kind: KindColumnNotFound, msg: fmt.Sprintf("column %q not found", column)},
		Column:    column,
	}
}

// UnsupportedTypeError indicates a type coercion target outside the
// supported set.
type UnsupportedTypeError struct {
	baseError
	Type string
}

// NewUnsupportedTypeError creates a new unsupported type error.
func NewUnsupportedTypeError(typeName string) *UnsupportedTypeError {
	return &UnsupportedTypeError{
		baseError: baseError{kind: KindUnsupportedType, msg: fmt.Sprintf("unsupported data type: %s", typeName)},
		Type:      typeName,
	}
}

// UnsupportedFormulaError indicates formula text outside the recognized
// grammars.
type UnsupportedFormulaError struct {
	baseError
	Formula string
}

// NewUnsupportedFormulaError creates a new unsupported formula error.
func NewUnsupportedFormulaError(formula string) *UnsupportedFormulaError {
	return &UnsupportedFormulaError{
		baseError: baseError{kind: KindUnsupportedFormula, msg: fmt.Sprintf("unsupported formula: %s", formula)},
		Formula:   formula,
	}
}

// InvalidConditionError indicates a malformed or mistyped row predicate.
type InvalidConditionError struct {
	baseError
	Condition string
}

// NewInvalidConditionError creates a new condition error.
func NewInvalidConditionError(condition, msg string) *InvalidConditionError {
	return &InvalidConditionError{
		baseError: baseError{kind: KindInvalidCondition, msg: fmt.Sprintf("invalid condition %q: %s", condition, msg)},
		Condition: condition,
	}
}

// InvalidRangeError indicates an out-of-bounds or inverted row range.
type InvalidRangeError struct {
	baseError
}

// NewInvalidRangeError creates a new range error.
func NewInvalidRangeError(msg string) *InvalidRangeError {
	return &InvalidRangeError{baseError{kind: KindInvalidRange, msg: msg}}
}

// NewInvalidRangeErrorf creates a new range error with formatting.
func NewInvalidRangeErrorf(format string, args ...any) *InvalidRangeError {
	return &InvalidRangeError{baseError{kind: KindInvalidRange, msg: fmt.Sprintf(format, args...)}}
}

// InvalidParameterError indicates an operation parameter that fails
// validation before any data is touched.
type InvalidParameterError struct {
	baseError
}

// NewInvalidParameterError creates a new parameter error.
func NewInvalidParameterError(msg string) *InvalidParameterError {
	return &InvalidParameterError{baseError{kind: KindInvalidParameter, msg: msg}}
}

// NewInvalidParameterErrorf creates a new parameter error with formatting.
func NewInvalidParameterErrorf(format string, args ...any) *InvalidParameterError {
	return &InvalidParameterError{baseError{kind: KindInvalidParameter, msg: fmt.Sprintf(format, args...)}}
}

// SheetNotFoundError indicates an unresolvable sheet name or index.
type SheetNotFoundError struct {
	baseError
	Sheet string
}

// NewSheetNotFoundError creates a new sheet lookup error.
func NewSheetNotFoundError(sheet string) *SheetNotFoundError {
	return &SheetNotFoundError{
		baseError: baseError{kind: KindSheetNotFound, msg: fmt.Sprintf("sheet %q not found", sheet)},
		Sheet:     sheet,
	}
}

// InvalidOrderError indicates a sheet ordering that is not a permutation
// of the existing sheets.
type InvalidOrderError struct {
	baseError
}

// NewInvalidOrderError creates a new ordering error.
func NewInvalidOrderError(msg string) *InvalidOrderError {
	return &InvalidOrderError{baseError{kind: KindInvalidOrder, msg: msg}}
}

// NewInvalidOrderErrorf creates a new ordering error with formatting.
func NewInvalidOrderErrorf(format string, args ...any) *InvalidOrderError {
	return &InvalidOrderError{baseError{kind: KindInvalidOrder, msg: fmt.Sprintf(format, args...)}}
}
