package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func workbookOf(t *testing.T, sheets map[string]int, order ...string) *tabular.Workbook {
	t.Helper()
	wb := tabular.NewWorkbook()
	for _, name := range order {
		require.NoError(t, wb.Add(name, numberedRows(sheets[name])))
	}
	return wb
}

func TestCombineSheets(t *testing.T) {
	wb := workbookOf(t, map[string]int{"One": 2, "Empty": 0, "Two": 3}, "One", "Empty", "Two")

	combined, err := CombineSheets(wb, "All")
	require.NoError(t, err)
	assert.Equal(t, []string{"All"}, combined.Names())

	all, _ := combined.Sheet("All")
	assert.Equal(t, 5, all.NumRows(), "empty sheets contribute nothing")
}

func TestCombineSheetsErrors(t *testing.T) {
	wb := workbookOf(t, map[string]int{"One": 1}, "One")

	_, err := CombineSheets(wb, "")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))

	_, err = CombineSheets(wb, strings.Repeat("x", 32))
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))

	empty := workbookOf(t, map[string]int{"One": 0}, "One")
	_, err = CombineSheets(empty, "All")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindEmptyInput))
}

func TestSplitToSheets(t *testing.T) {
	wb := workbookOf(t, map[string]int{"A": 3, "B": 4}, "A", "B")

	out, err := SplitToSheets(wb, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet_1", "Sheet_2", "Sheet_3"}, out.Names())

	sizes := []int{}
	for i := 0; i < out.Len(); i++ {
		_, t0, _ := out.SheetAt(i)
		sizes = append(sizes, t0.NumRows())
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
}

func TestSplitToSheetsErrors(t *testing.T) {
	wb := workbookOf(t, map[string]int{"A": 3}, "A")

	_, err := SplitToSheets(wb, 0)
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))

	empty := workbookOf(t, map[string]int{"A": 0}, "A")
	_, err = SplitToSheets(empty, 3)
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindEmptyInput))
}

func TestRenameSheets(t *testing.T) {
	wb := workbookOf(t, map[string]int{"Old1": 1, "Old2": 2}, "Old1", "Old2")

	out, err := RenameSheets(wb, []string{"New1", "New2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"New1", "New2"}, out.Names())

	renamed, ok := out.Sheet("New2")
	require.True(t, ok)
	assert.Equal(t, 2, renamed.NumRows(), "rename is positional")
}

func TestRenameSheetsErrors(t *testing.T) {
	wb := workbookOf(t, map[string]int{"Old1": 1, "Old2": 2}, "Old1", "Old2")

	tests := []struct {
		name  string
		names []string
	}{
		{name: "count mismatch", names: []string{"OnlyOne"}},
		{name: "empty name", names: []string{"Ok", " "}},
		{name: "name too long", names: []string{"Ok", strings.Repeat("x", 32)}},
		{name: "duplicate names", names: []string{"Same", "Same"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenameSheets(wb, tt.names)
			require.Error(t, err)
			assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter), "got %v", err)
		})
	}
}

func TestReorderSheets(t *testing.T) {
	wb := workbookOf(t, map[string]int{"A": 1, "B": 2, "C": 3}, "A", "B", "C")

	out, err := ReorderSheets(wb, []string{"C", "A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, out.Names())
}

func TestReorderSheetsByIndex(t *testing.T) {
	wb := workbookOf(t, map[string]int{"A": 1, "B": 2, "C": 3}, "A", "B", "C")

	out, err := ReorderSheets(wb, []string{"2", "0", "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, out.Names())
}

func TestReorderSheetsErrors(t *testing.T) {
	wb := workbookOf(t, map[string]int{"A": 1, "B": 2}, "A", "B")

	tests := []struct {
		name  string
		order []string
	}{
		{name: "unknown name", order: []string{"A", "Ghost"}},
		{name: "index out of range", order: []string{"A", "5"}},
		{name: "too few entries", order: []string{"A"}},
		{name: "repeated sheet", order: []string{"A", "A"}},
		{name: "name and its index", order: []string{"A", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReorderSheets(wb, tt.order)
			require.Error(t, err)
			assert.True(t, tabular.IsKind(err, tabular.KindInvalidOrder), "got %v", err)
		})
	}
}

func TestCopySheets(t *testing.T) {
	source := workbookOf(t, map[string]int{"Raw": 2, "Extra": 1}, "Raw", "Extra")
	target := workbookOf(t, map[string]int{"Main": 3}, "Main")

	out, err := CopySheets(source, target, []string{"Raw", "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Main", "Raw", "Extra"}, out.Names())

	main, _ := out.Sheet("Main")
	assert.Equal(t, 3, main.NumRows(), "target sheets come first, untouched")
}

func TestCopySheetsCollision(t *testing.T) {
	source := workbookOf(t, map[string]int{"Main": 2}, "Main")
	target := workbookOf(t, map[string]int{"Main": 3}, "Main")

	out, err := CopySheets(source, target, []string{"Main"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Main", "Main_1"}, out.Names())
}

func TestCopySheetsUnknownSource(t *testing.T) {
	source := workbookOf(t, map[string]int{"Raw": 1}, "Raw")
	target := workbookOf(t, map[string]int{"Main": 1}, "Main")

	_, err := CopySheets(source, target, []string{"Ghost"})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindSheetNotFound))
}

func TestCopySheetsCopiesData(t *testing.T) {
	source := workbookOf(t, map[string]int{"Raw": 1}, "Raw")
	target := workbookOf(t, map[string]int{"Main": 1}, "Main")

	out, err := CopySheets(source, target, []string{"Raw"})
	require.NoError(t, err)

	copied, _ := out.Sheet("Raw")
	copied.Rows[0][0] = tabular.Text("mutated")

	original, _ := source.Sheet("Raw")
	assert.Equal(t, tabular.Int(0), original.Rows[0][0], "copies do not alias the source")
}
