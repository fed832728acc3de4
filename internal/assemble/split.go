package assemble

import (
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Split partitions a table into consecutive chunks of rowsPerChunk
// rows, the last chunk taking whatever remains. Chunk count is
// ceil(rows/rowsPerChunk); an empty table yields no chunks.
func Split(t *tabular.Table, rowsPerChunk int) ([]*tabular.Table, error) {
	if rowsPerChunk <= 0 {
		return nil, tabular.NewInvalidParameterError("rows per chunk must be greater than 0")
	}
	var chunks []*tabular.Table
	for start := 0; start < len(t.Rows); start += rowsPerChunk {
		end := start + rowsPerChunk
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		chunk := tabular.NewTable(t.Columns...)
		chunk.Rows = t.Rows[start:end]
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
