package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/internal/testutil"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func rows(t *tabular.Table, cells ...[]tabular.Value) *tabular.Table {
	for _, row := range cells {
		t.AppendRow(row...)
	}
	return t
}

func TestMergeTwoFlatFiles(t *testing.T) {
	a := rows(tabular.NewTable("id", "name"),
		[]tabular.Value{tabular.Int(1), tabular.Text("x")},
		[]tabular.Value{tabular.Int(2), tabular.Text("y")})
	b := rows(tabular.NewTable("id", "name"),
		[]tabular.Value{tabular.Int(3), tabular.Text("z")})

	merged, err := Merge([]Input{
		{Name: "A.csv", Table: a},
		{Name: "B.csv", Table: b},
	}, true, testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "source_file"}, merged.Columns)
	require.Equal(t, 3, merged.NumRows())
	assert.Equal(t, tabular.Text("A.csv"), merged.Rows[0][2])
	assert.Equal(t, tabular.Text("A.csv"), merged.Rows[1][2])
	assert.Equal(t, tabular.Text("B.csv"), merged.Rows[2][2])
	assert.Equal(t, tabular.Int(3), merged.Rows[2][0], "input order is preserved")
}

func TestMergeTagsSheets(t *testing.T) {
	a := rows(tabular.NewTable("id"), []tabular.Value{tabular.Int(1)})
	b := rows(tabular.NewTable("id"), []tabular.Value{tabular.Int(2)})

	merged, err := Merge([]Input{
		{Name: "book.xlsx", Sheet: "One", Table: a},
		{Name: "book.xlsx", Sheet: "Two", Table: b},
	}, true, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "source_file", "source_sheet"}, merged.Columns)
	assert.Equal(t, tabular.Text("One"), merged.Rows[0][2])
	assert.Equal(t, tabular.Text("Two"), merged.Rows[1][2])
}

func TestMergeNormalizesColumnNames(t *testing.T) {
	a := rows(tabular.NewTable(" ID ", "Name"), []tabular.Value{tabular.Int(1), tabular.Text("x")})
	b := rows(tabular.NewTable("id", "name"), []tabular.Value{tabular.Int(2), tabular.Text("y")})

	merged, err := Merge([]Input{
		{Name: "a.csv", Table: a},
		{Name: "b.csv", Table: b},
	}, true, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "source_file"}, merged.Columns)
	assert.Equal(t, 2, merged.NumRows())
}

func TestMergeSkipsEmptyInputs(t *testing.T) {
	a := rows(tabular.NewTable("id"), []tabular.Value{tabular.Int(1)})
	empty := tabular.NewTable("id")

	merged, err := Merge([]Input{
		{Name: "a.csv", Table: a},
		{Name: "empty.csv", Table: empty},
	}, true, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, merged.NumRows())
}

func TestMergeAllEmptyFails(t *testing.T) {
	_, err := Merge([]Input{
		{Name: "a.csv", Table: tabular.NewTable("id")},
		{Name: "b.csv", Table: tabular.NewTable("id")},
	}, false, nil)
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindEmptyInput))
}

func TestMergeSchemaValidation(t *testing.T) {
	mismatched := func() []Input {
		return []Input{
			{Name: "a.csv", Table: rows(tabular.NewTable("id"), []tabular.Value{tabular.Int(1)})},
			{Name: "b.csv", Table: rows(tabular.NewTable("id", "extra"),
				[]tabular.Value{tabular.Int(2), tabular.Text("x")})},
		}
	}

	_, err := Merge(mismatched(), true, nil)
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindSchema))

	// Without validation the mismatch unions, gaps fill with nulls.
	merged, err := Merge(mismatched(), false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "source_file", "extra"}, merged.Columns)
	assert.True(t, merged.Rows[0][2].IsNull())
	assert.Equal(t, tabular.Text("x"), merged.Rows[1][2])
}

func TestConcatColumnOrderFirstAppearance(t *testing.T) {
	a := rows(tabular.NewTable("x", "y"), []tabular.Value{tabular.Int(1), tabular.Int(2)})
	b := rows(tabular.NewTable("y", "z"), []tabular.Value{tabular.Int(3), tabular.Int(4)})

	out := Concat([]*tabular.Table{a, b})
	assert.Equal(t, []string{"x", "y", "z"}, out.Columns)
	require.Equal(t, 2, out.NumRows())
	assert.True(t, out.Rows[1][0].IsNull())
	assert.Equal(t, tabular.Int(3), out.Rows[1][1])
	assert.Equal(t, tabular.Int(4), out.Rows[1][2])
}
