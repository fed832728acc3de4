package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func tableWith(columns ...string) *tabular.Table {
	t := tabular.NewTable(columns...)
	cells := make([]tabular.Value, len(columns))
	for i := range cells {
		cells[i] = tabular.Int(int64(i))
	}
	t.AppendRow(cells...)
	return t
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		wantErr bool
	}{
		{
			name: "matching sets",
			sources: []Source{
				{Name: "a.csv", Table: tableWith("id", "name")},
				{Name: "b.csv", Table: tableWith("id", "name")},
			},
		},
		{
			name: "order does not matter",
			sources: []Source{
				{Name: "a.csv", Table: tableWith("id", "name")},
				{Name: "b.csv", Table: tableWith("name", "id")},
			},
		},
		{
			name: "extra column fails",
			sources: []Source{
				{Name: "a.csv", Table: tableWith("id", "name")},
				{Name: "b.csv", Table: tableWith("id", "name", "age")},
			},
			wantErr: true,
		},
		{
			name: "missing column fails",
			sources: []Source{
				{Name: "a.csv", Table: tableWith("id", "name")},
				{Name: "b.csv", Table: tableWith("id")},
			},
			wantErr: true,
		},
		{
			name: "empty tables ignored",
			sources: []Source{
				{Name: "a.csv", Table: tableWith("id", "name")},
				{Name: "b.csv", Table: tabular.NewTable("completely", "different")},
			},
		},
		{
			name: "all empty is valid",
			sources: []Source{
				{Name: "a.csv", Table: tabular.NewTable("id")},
				{Name: "b.csv", Table: tabular.NewTable("name")},
			},
		},
		{
			name:    "no sources",
			sources: nil,
		},
		{
			name: "single source",
			sources: []Source{
				{Name: "a.csv", Table: tableWith("id")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sources)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tabular.IsKind(err, tabular.KindSchema))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateNamesOffenders(t *testing.T) {
	err := Validate([]Source{
		{Name: "a.csv", Table: tableWith("id")},
		{Name: "b.csv", Table: tableWith("id", "extra")},
	})
	require.Error(t, err)

	var schemaErr *tabular.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{"a.csv", "b.csv"}, schemaErr.Tables)
}
