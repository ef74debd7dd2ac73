package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(
		"responses",
		NewHeader([]string{"id", "country", "foi2"}),
		[]Record{
			{Text("1"), Text("Germany"), Number(3)},
			{Text("2"), Text("France")},
			{Text("3"), Text("Germany"), Number(0.5)},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestNewTable(t *testing.T) {
	t.Parallel()

	t.Run("short records are padded with nulls", func(t *testing.T) {
		t.Parallel()
		tbl := newTestTable(t)
		assert.Equal(t, 3, tbl.Len())
		assert.True(t, tbl.Cell(1, "foi2").IsNull())
		assert.Len(t, tbl.Records()[1], 3)
	})

	t.Run("duplicate column names are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewTable("x", NewHeader([]string{"a", "a"}), nil)
		require.ErrorIs(t, err, ErrDuplicateColumnName)
	})

	t.Run("records longer than the header are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewTable("x", NewHeader([]string{"a"}), []Record{{Text("1"), Text("2")}})
		require.Error(t, err)
	})
}

func TestTable_Column(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	values, ok := tbl.Column("country")
	require.True(t, ok)
	assert.Equal(t, []Value{Text("Germany"), Text("France"), Text("Germany")}, values)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
	assert.True(t, tbl.Cell(0, "missing").IsNull())
	assert.True(t, tbl.Cell(99, "country").IsNull())
}

func TestTable_Filter(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	filtered, err := tbl.Filter([]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Len())
	assert.Equal(t, Text("3"), filtered.Cell(1, "id"))

	_, err = tbl.Filter([]bool{true})
	require.ErrorIs(t, err, ErrMaskLength)
}

func TestTable_Select(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	selected, missing := tbl.Select([]string{"foi2", "id"})
	require.Empty(t, missing)
	assert.Equal(t, Header{"foi2", "id"}, selected.Header())
	assert.Equal(t, Record{Number(3), Text("1")}, selected.Records()[0])

	_, missing = tbl.Select([]string{"id", "nope", "other"})
	assert.Equal(t, []string{"nope", "other"}, missing)
}

func TestTable_Equal(t *testing.T) {
	t.Parallel()
	a := newTestTable(t)
	b := newTestTable(t)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(b.WithName("other")))

	c, err := NewTable("responses", a.Header(), []Record{{Text("1")}})
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}
