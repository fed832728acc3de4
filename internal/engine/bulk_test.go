package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func TestBulkRenameExpandsPattern(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		csvFile("alpha.csv", "id\n1\n"),
		csvFile("beta.csv", "id\n2\n"),
	}

	got, err := e.BulkRename(files, "report_{index}_{filename}")
	require.NoError(t, err)

	assert.Equal(t, "renamed_files.zip", got.Name)
	assert.Equal(t, ZipContentType, got.ContentType)

	entries := unzip(t, got.Data)
	require.Equal(t, []string{"report_0_alpha.csv", "report_1_beta.csv"}, entryNames(entries))
	assert.Equal(t, []byte("id\n1\n"), entries[0].Data, "bytes pass through untouched")
}

func TestBulkRenameRejectsBadCharacters(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BulkRename([]File{csvFile("a.csv", "id\n1\n")}, "bad name {index}")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
}

func TestBulkRenameRejectsCollidingPattern(t *testing.T) {
	e := newTestEngine(t)

	files := []File{csvFile("a.csv", "id\n1\n"), csvFile("b.csv", "id\n2\n")}
	_, err := e.BulkRename(files, "report")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
	assert.Contains(t, err.Error(), "duplicate filename")
}

func TestBulkRenameRequiresPattern(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BulkRename([]File{csvFile("a.csv", "id\n1\n")}, "")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
}

func TestBulkRenameRequiresFiles(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BulkRename(nil, "x_{index}")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
}

func TestBulkCompressKeepsNamesAndBytes(t *testing.T) {
	e := newTestEngine(t)
	files := []File{
		csvFile("a.csv", "id\n1\n"),
		csvFile("b.csv", "id\n2\n"),
	}

	got, err := e.BulkCompress(files)
	require.NoError(t, err)

	assert.Equal(t, "compressed_files.zip", got.Name)
	entries := unzip(t, got.Data)
	require.Equal(t, []string{"a.csv", "b.csv"}, entryNames(entries))
	assert.Equal(t, []byte("id\n2\n"), entries[1].Data)
}

func TestBulkRejectsUnknownExtension(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BulkCompress([]File{{Name: "notes.txt", Data: []byte("hi")}})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindFormat))

	_, err = e.BulkRename([]File{{Name: "notes.txt", Data: []byte("hi")}}, "x_{index}")
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindFormat))
}

func TestBulkCompressStrictModeValidates(t *testing.T) {
	e := New(Config{Strict: true})

	_, err := e.BulkCompress([]File{csvFile("a.csv", "id;name\n1;x\n")})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindFormat))

	got, err := e.BulkCompress([]File{csvFile("a.csv", "id,name\n1,x\n")})
	require.NoError(t, err)
	assert.Equal(t, "compressed_files.zip", got.Name)
}
