package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func TestMergeRequiresTwoFiles(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Merge([]File{csvFile("only.csv", "id\n1\n")}, Options{})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
}

func TestMergeCSVFiles(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		csvFile("a.csv", "id,name\n1,ada\n"),
		csvFile("b.csv", "id,name\n2,grace\n"),
	}

	got, err := e.Merge(files, Options{Validate: true})
	require.NoError(t, err)

	assert.Equal(t, "merged_csv.csv", got.Name)
	assert.Equal(t, "text/csv", got.ContentType)

	table := decodeArtifactTable(t, codec.CSV, got)
	assert.Equal(t, []string{"id", "name", "source_file"}, table.Columns)
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, tabular.Text("a.csv"), table.Rows[0][2])
	assert.Equal(t, tabular.Text("b.csv"), table.Rows[1][2])
}

func TestMergeWorkbooksTagsSheets(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		excelFile(t, "a.xlsx",
			sheet("One", []string{"id"}, []tabular.Value{tabular.Int(1)}),
			sheet("Two", []string{"id"}, []tabular.Value{tabular.Int(2)})),
		excelFile(t, "b.xlsx",
			sheet("Only", []string{"id"}, []tabular.Value{tabular.Int(3)})),
	}

	got, err := e.Merge(files, Options{})
	require.NoError(t, err)

	assert.Equal(t, "merged_excel.xlsx", got.Name)
	wb := decodeArtifactWorkbook(t, got)
	assert.Equal(t, []string{"Merged"}, wb.Names())

	table, ok := wb.Sheet("Merged")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "source_file", "source_sheet"}, table.Columns)
	require.Equal(t, 3, table.NumRows())
	assert.Equal(t, tabular.Text("a.xlsx"), table.Rows[0][1])
	assert.Equal(t, tabular.Text("Two"), table.Rows[1][2])
	assert.Equal(t, tabular.Text("b.xlsx"), table.Rows[2][1])
}

func TestMergeSkipsEmptyInputs(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		csvFile("empty.csv", "id,name\n"),
		csvFile("full.csv", "id,name\n1,ada\n"),
		csvFile("more.csv", "id,name\n2,grace\n"),
	}

	got, err := e.Merge(files, Options{})
	require.NoError(t, err)

	table := decodeArtifactTable(t, codec.CSV, got)
	require.Equal(t, 2, table.NumRows())
}

func TestMergeAllEmptyFails(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		csvFile("a.csv", "id\n"),
		csvFile("b.csv", "id\n"),
	}

	_, err := e.Merge(files, Options{})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindEmptyInput))
}

func TestMergeValidatesSchema(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		csvFile("a.csv", "id,name\n1,x\n"),
		csvFile("b.csv", "id,age\n2,30\n"),
	}

	_, err := e.Merge(files, Options{Validate: true})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindSchema))
}
