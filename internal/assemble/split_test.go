package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

func numberedRows(n int) *tabular.Table {
	t := tabular.NewTable("id")
	for i := 0; i < n; i++ {
		t.AppendRow(tabular.Int(int64(i)))
	}
	return t
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		chunkSize int
		wantSizes []int
	}{
		{name: "even split", rows: 6, chunkSize: 2, wantSizes: []int{2, 2, 2}},
		{name: "uneven tail", rows: 7, chunkSize: 3, wantSizes: []int{3, 3, 1}},
		{name: "chunk larger than table", rows: 2, chunkSize: 10, wantSizes: []int{2}},
		{name: "single row chunks", rows: 3, chunkSize: 1, wantSizes: []int{1, 1, 1}},
		{name: "empty table", rows: 0, chunkSize: 5, wantSizes: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(numberedRows(tt.rows), tt.chunkSize)
			require.NoError(t, err)
			require.Len(t, chunks, len(tt.wantSizes))

			total := 0
			next := int64(0)
			for i, chunk := range chunks {
				assert.Equal(t, tt.wantSizes[i], chunk.NumRows())
				total += chunk.NumRows()
				for _, row := range chunk.Rows {
					assert.Equal(t, tabular.Int(next), row[0], "concatenating chunks reproduces the original order")
					next++
				}
			}
			assert.Equal(t, tt.rows, total)
		})
	}
}

func TestSplitInvalidChunkSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Split(numberedRows(3), size)
		require.Error(t, err)
		assert.True(t, tabular.IsKind(err, tabular.KindInvalidParameter))
	}
}
