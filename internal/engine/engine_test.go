package engine

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/testutil"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Config{Logger: testutil.NewTestLogger(t)})
}

func csvFile(name, content string) File {
	return File{Name: name, Data: []byte(content)}
}

type sheetFixture struct {
	name  string
	table *tabular.Table
}

func sheet(name string, columns []string, rows ...[]tabular.Value) sheetFixture {
	t := tabular.NewTable(columns...)
	for _, row := range rows {
		t.AppendRow(row...)
	}
	return sheetFixture{name: name, table: t}
}

func excelFile(t *testing.T, name string, sheets ...sheetFixture) File {
	t.Helper()
	wb := tabular.NewWorkbook()
	for _, s := range sheets {
		require.NoError(t, wb.Add(s.name, s.table))
	}
	data, err := codec.EncodeWorkbook(codec.Excel, wb, codec.EncodeOptions{})
	require.NoError(t, err)
	return File{Name: name, Data: data}
}

func decodeArtifactWorkbook(t *testing.T, a Artifact) *tabular.Workbook {
	t.Helper()
	wb, err := codec.DecodeWorkbook(codec.Excel, a.Data, codec.DecodeOptions{})
	require.NoError(t, err)
	return wb
}

func decodeArtifactTable(t *testing.T, f codec.Format, a Artifact) *tabular.Table {
	t.Helper()
	table, err := codec.DecodeTable(f, a.Data, codec.DecodeOptions{})
	require.NoError(t, err)
	return table
}

type zipEntry struct {
	Name string
	Data []byte
}

func unzip(t *testing.T, data []byte) []zipEntry {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	entries := make([]zipEntry, 0, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries = append(entries, zipEntry{Name: f.Name, Data: content})
	}
	return entries
}

func entryNames(entries []zipEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
