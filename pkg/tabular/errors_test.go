package tabular

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "format", err: NewFormatError("bad bytes"), want: KindFormat},
		{name: "empty input", err: NewEmptyInputError("no data"), want: KindEmptyInput},
		{name: "schema", err: NewSchemaError("mismatch", []string{"a", "b"}), want: KindSchema},
		{name: "column", err: NewColumnNotFoundError("price"), want: KindColumnNotFound},
		{name: "type", err: NewUnsupportedTypeError("date"), want: KindUnsupportedType},
		{name: "formula", err: NewUnsupportedFormulaError("sqrt(x)"), want: KindUnsupportedFormula},
		{name: "condition", err: NewInvalidConditionError("age >", "parse error"), want: KindInvalidCondition},
		{name: "range", err: NewInvalidRangeError("end before start"), want: KindInvalidRange},
		{name: "parameter", err: NewInvalidParameterError("bad value"), want: KindInvalidParameter},
		{name: "sheet", err: NewSheetNotFoundError("Sheet9"), want: KindSheetNotFound},
		{name: "order", err: NewInvalidOrderError("missing sheets"), want: KindInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
			assert.True(t, IsKind(tt.err, tt.want))
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("while merging: %w", NewColumnNotFoundError("id"))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindColumnNotFound, kind)

	var cnf *ColumnNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, "id", cnf.Column)
}

func TestKindOfForeignError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(errors.New("plain"), KindFormat))
}

func TestFormatErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := WrapFormatError("not a valid workbook", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "not a valid workbook")
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `column "qty" not found`, NewColumnNotFoundError("qty").Error())
	assert.Equal(t, "unsupported data type: datetime", NewUnsupportedTypeError("datetime").Error())
	assert.Contains(t, NewInvalidConditionError("x >", "syntax").Error(), `"x >"`)
}
