package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Constructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    Value
		wantKind ValueKind
		wantStr  string
	}{
		{name: "null", value: Null(), wantKind: KindNull, wantStr: ""},
		{name: "empty text is null", value: Text(""), wantKind: KindNull, wantStr: ""},
		{name: "text", value: Text("AO01"), wantKind: KindText, wantStr: "AO01"},
		{name: "number", value: Number(0.5), wantKind: KindNumber, wantStr: "0.5"},
		{name: "whole number", value: Number(20), wantKind: KindNumber, wantStr: "20"},
		{name: "NaN is null", value: Number(math.NaN()), wantKind: KindNull, wantStr: ""},
		{name: "true", value: Bool(true), wantKind: KindBool, wantStr: "true"},
		{name: "false", value: Bool(false), wantKind: KindBool, wantStr: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantKind, tt.value.Kind())
			assert.Equal(t, tt.wantStr, tt.value.String())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, Null().Equal(Value{}))
	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Text("1").Equal(Number(1)))
	assert.False(t, Bool(false).Equal(Null()))
	assert.True(t, Number(2).Equal(Number(2)))
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	s, ok := Text("x").Str()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Number(1).Str()
	assert.False(t, ok)

	f, ok := Number(1.5).Float()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, f, 0)

	b, ok := Bool(true).Boolean()
	assert.True(t, ok)
	assert.True(t, b)
}
