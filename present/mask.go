// Package present adapts the harmonised table to chart-ready structures.
//
// The shell owns widget state and rendering. It builds a Mask from its filter
// widgets, then calls one adapter per chart with the table, the mask and a variable
// or family name. Adapters resolve titles and display labels through the registry and
// return plain structs that marshal to JSON.
package present

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nao1215/surveydash/domain/model"
)

var (
	// ErrUnknownFamily is returned when the registry declares no such question family
	ErrUnknownFamily = errors.New("present: unknown question family")
	// ErrUnknownColumn is returned when a filter names a column the table lacks
	ErrUnknownColumn = errors.New("present: unknown column")
)

// Mask selects rows of a table, one flag per row.
type Mask []bool

// All selects every row of t
func All(t *model.Table) Mask {
	m := make(Mask, t.Len())
	for i := range m {
		m[i] = true
	}
	return m
}

// None selects no row of t
func None(t *model.Table) Mask {
	return make(Mask, t.Len())
}

// Where selects the rows whose cell in column renders as one of values.
// Booleans render as "true" and "false", numbers without trailing zeros.
// Without values nothing is selected.
func Where(t *model.Table, column string, values ...string) (Mask, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	m := make(Mask, t.Len())
	for r, rec := range t.Records() {
		v := rec[idx]
		m[r] = !v.IsNull() && slices.Contains(values, v.String())
	}
	return m, nil
}

// And selects rows selected by both masks. A row beyond the shorter mask is unselected.
func (m Mask) And(o Mask) Mask {
	return combine(m, o, func(a, b bool) bool { return a && b })
}

// Or selects rows selected by either mask
func (m Mask) Or(o Mask) Mask {
	return combine(m, o, func(a, b bool) bool { return a || b })
}

// Not inverts the mask
func (m Mask) Not() Mask {
	out := make(Mask, len(m))
	for i, keep := range m {
		out[i] = !keep
	}
	return out
}

// Count returns the number of selected rows
func (m Mask) Count() int {
	n := 0
	for _, keep := range m {
		if keep {
			n++
		}
	}
	return n
}

func combine(a, b Mask, op func(bool, bool) bool) Mask {
	out := make(Mask, max(len(a), len(b)))
	for i := range out {
		out[i] = op(i < len(a) && a[i], i < len(b) && b[i])
	}
	return out
}
