package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []Value
		expected ColumnType
	}{
		{name: "all integers", values: []Value{Number(1), Number(20), Null()}, expected: ColumnTypeInteger},
		{name: "reals", values: []Value{Number(0.5), Number(3)}, expected: ColumnTypeReal},
		{name: "booleans", values: []Value{Bool(true), Bool(false)}, expected: ColumnTypeBoolean},
		{name: "text", values: []Value{Text("Yes"), Null()}, expected: ColumnTypeText},
		{name: "mixed kinds", values: []Value{Text("Yes"), Number(1)}, expected: ColumnTypeText},
		{name: "all null", values: []Value{Null(), Null()}, expected: ColumnTypeText},
		{name: "empty", values: nil, expected: ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, InferColumnType(tt.values))
		})
	}
}

func TestInferColumnsInfo(t *testing.T) {
	t.Parallel()

	tbl, err := NewTable("t", NewHeader([]string{"a", "b"}), []Record{
		{Number(1), Bool(true)},
		{Number(2.5), Bool(false)},
	})
	require.NoError(t, err)

	info := InferColumnsInfo(tbl)
	assert.Equal(t, []ColumnInfo{
		{Name: "a", Type: ColumnTypeReal},
		{Name: "b", Type: ColumnTypeBoolean},
	}, info)
	assert.Equal(t, "REAL", info[0].Type.String())
	assert.Equal(t, "INTEGER", info[1].Type.String())
}
