package surveydash

import (
	"github.com/nao1215/surveydash/domain/model"
)

// SurveyTableName is the name of the combined table and of its snapshots
const SurveyTableName = "survey"

// Merge stacks the decoded CSO and Media tables into one long table.
// Columns are the CSO columns followed by the Media-only columns in Media order;
// a column one variant lacks is null in that variant's rows. CSO rows precede
// Media rows and each keeps its own order.
func Merge(cso, media *model.Table) (*model.Table, error) {
	header := make(model.Header, 0, len(cso.Header())+len(media.Header()))
	header = append(header, cso.Header()...)
	for _, col := range media.Header() {
		if !cso.HasColumn(col) {
			header = append(header, col)
		}
	}

	records := make([]model.Record, 0, cso.Len()+media.Len())
	records = appendAligned(records, header, cso)
	records = appendAligned(records, header, media)
	return model.NewTable(SurveyTableName, header, records)
}

// appendAligned appends the rows of t re-ordered to header
func appendAligned(records []model.Record, header model.Header, t *model.Table) []model.Record {
	source := make([]int, len(header))
	for i, col := range header {
		source[i] = t.ColumnIndex(col)
	}
	for _, rec := range t.Records() {
		out := make(model.Record, len(header))
		for i, idx := range source {
			if idx >= 0 {
				out[i] = rec[idx]
			}
		}
		records = append(records, out)
	}
	return records
}
