package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Format
		wantErr bool
	}{
		{name: "csv", in: "csv", want: CSV},
		{name: "uppercase", in: "CSV", want: CSV},
		{name: "padded", in: "  json ", want: JSON},
		{name: "excel", in: "excel", want: Excel},
		{name: "xlsx alias", in: "xlsx", want: Excel},
		{name: "xls alias", in: "xls", want: Excel},
		{name: "xml", in: "xml", want: XML},
		{name: "unknown", in: "parquet", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tabular.IsKind(err, tabular.KindFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Format
		wantErr bool
	}{
		{name: "csv", in: "data.csv", want: CSV},
		{name: "xlsx", in: "report.xlsx", want: Excel},
		{name: "uppercase ext", in: "REPORT.XLSX", want: Excel},
		{name: "legacy xls", in: "old.xls", want: Excel},
		{name: "json", in: "rows.json", want: JSON},
		{name: "xml", in: "rows.xml", want: XML},
		{name: "multi dot", in: "export.2024.csv", want: CSV},
		{name: "unknown", in: "notes.txt", wantErr: true},
		{name: "no extension", in: "data", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFilename(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, "csv", CSV.Extension())
	assert.Equal(t, "xlsx", Excel.Extension())
	assert.Equal(t, "json", JSON.Extension())
	assert.Equal(t, "xml", XML.Extension())
}

func TestMatchesFilename(t *testing.T) {
	assert.True(t, CSV.MatchesFilename("a.csv"))
	assert.True(t, Excel.MatchesFilename("a.xls"))
	assert.False(t, CSV.MatchesFilename("a.json"))
	assert.False(t, XML.MatchesFilename("a"))
}

func TestEncodeTableRejectsPasswordOnFlatFormats(t *testing.T) {
	table := tabular.NewTable("id")
	table.AppendRow(tabular.Int(1))

	for _, f := range []Format{CSV, JSON, XML} {
		t.Run(string(f), func(t *testing.T) {
			_, err := EncodeTable(f, table, EncodeOptions{Password: "secret"})
			require.Error(t, err)
			assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
		})
	}

	_, err := EncodeTable(Excel, table, EncodeOptions{Password: "secret"})
	require.NoError(t, err)
}

func TestEncodeWorkbookRequiresExcel(t *testing.T) {
	wb := tabular.NewWorkbook()
	table := tabular.NewTable("id")
	table.AppendRow(tabular.Int(1))
	require.NoError(t, wb.Add("One", table))

	_, err := EncodeWorkbook(CSV, wb, EncodeOptions{})
	require.Error(t, err)
	assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
}

func TestDecodeWorkbookWrapsFlatFormats(t *testing.T) {
	wb, err := DecodeWorkbook(CSV, []byte("id,name\n1,ada\n"), DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, wb.Len())
	assert.Equal(t, []string{DefaultSheet}, wb.Names())

	table, ok := wb.Sheet(DefaultSheet)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
}
