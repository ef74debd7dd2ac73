// Package derive computes the grouped views the presentation layer draws: value
// counts, stacked-bar matrices, per-country histograms, cross-tabs, rank scores,
// and the pairwise correlation and significance matrices of the harmonised table.
//
// Every function is stateless. It takes a table, an optional row mask (nil selects
// every row) and variable names, and never mutates its input.
package derive

import (
	"errors"
	"fmt"

	"github.com/nao1215/surveydash/domain/model"
)

var (
	// ErrUnknownVariable is returned when a requested column is not in the table
	ErrUnknownVariable = errors.New("derive: unknown variable")
	// ErrNotMultiOption is returned when a multi-select column holds non-boolean cells
	ErrNotMultiOption = errors.New("derive: not a multi-select variable")
)

// selectedRows returns the indices of rows selected by mask. A nil mask selects every row.
func selectedRows(t *model.Table, mask []bool) ([]int, error) {
	if mask == nil {
		rows := make([]int, t.Len())
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}
	if len(mask) != t.Len() {
		return nil, fmt.Errorf("%w: mask %d, table %d", model.ErrMaskLength, len(mask), t.Len())
	}
	rows := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// column returns the index of a column or ErrUnknownVariable
func column(t *model.Table, name string) (int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	return idx, nil
}

// OptionColumn returns the column name of a family's option, e.g. hr3[legal]
func OptionColumn(family, option string) string {
	return family + "[" + option + "]"
}
