package derive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nao1215/surveydash/domain/model"
)

// newTestTable builds a table from text cells. "" is null, "#t"/"#f" are booleans.
func newTestTable(t *testing.T, header []string, rows ...[]string) *model.Table {
	t.Helper()

	records := make([]model.Record, len(rows))
	for r, row := range rows {
		rec := make(model.Record, len(row))
		for i, cell := range row {
			switch cell {
			case "#t":
				rec[i] = model.Bool(true)
			case "#f":
				rec[i] = model.Bool(false)
			default:
				rec[i] = model.Text(cell)
			}
		}
		records[r] = rec
	}
	table, err := model.NewTable("survey", model.NewHeader(header), records)
	require.NoError(t, err)
	return table
}
