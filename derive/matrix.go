package derive

import (
	"fmt"
	"math"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// MatrixVariableColumn is the first column of a matrix table, holding the row variable
const MatrixVariableColumn = "variable"

// MatrixTable lays a matrix out as a table: one row per variable, the first column
// naming it and one column per variable after it. NaN cells are null.
func MatrixTable(name string, m Matrix) (*model.Table, error) {
	header := make(model.Header, 0, len(m.Names)+1)
	header = append(header, MatrixVariableColumn)
	header = append(header, m.Names...)

	records := make([]model.Record, len(m.Names))
	for i, row := range m.Values {
		rec := make(model.Record, 0, len(row)+1)
		rec = append(rec, model.Text(m.Names[i]))
		for _, v := range row {
			rec = append(rec, model.Number(v))
		}
		records[i] = rec
	}
	return model.NewTable(name, header, records)
}

// MatrixFromTable reads a matrix laid out by MatrixTable. Null cells become NaN.
func MatrixFromTable(t *model.Table) (Matrix, error) {
	header := t.Header()
	if len(header) == 0 || header[0] != MatrixVariableColumn {
		return Matrix{}, fmt.Errorf("%w: %s is not a matrix table", ErrUnknownVariable, t.Name())
	}
	m := newMatrix(header[1:])
	if t.Len() != len(m.Names) {
		return Matrix{}, fmt.Errorf("matrix %s: %d rows for %d variables", t.Name(), t.Len(), len(m.Names))
	}
	for i, rec := range t.Records() {
		for j, v := range rec[1:] {
			if f, ok := v.Float(); ok {
				m.Values[i][j] = f
			} else {
				m.Values[i][j] = math.NaN()
			}
		}
	}
	return m, nil
}

// AssociationColumns picks the columns of a harmonised table that enter the
// association matrices, in table order: country and survey_type, categorical,
// numeric and multi-select variables. Rank positions, free text and identifiers are
// left out. The second result marks numeric variables as interval columns.
func AssociationColumns(reg *registry.Registry, t *model.Table) ([]string, map[string]bool) {
	var columns []string
	interval := make(map[string]bool)
	for _, col := range t.Header() {
		switch col {
		case registry.ColumnCountry, registry.ColumnSurveyType:
			columns = append(columns, col)
			continue
		}
		kind, ok := kindInAnyVariant(reg, col)
		if !ok {
			continue
		}
		switch kind {
		case registry.KindCategorical, registry.KindMultiSelect:
			columns = append(columns, col)
		case registry.KindNumeric:
			columns = append(columns, col)
			interval[col] = true
		}
	}
	return columns, interval
}

func kindInAnyVariant(reg *registry.Registry, col string) (registry.Kind, bool) {
	for _, v := range model.Variants() {
		if kind, ok := reg.KindOf(v, col); ok {
			return kind, true
		}
	}
	return 0, false
}
