package model

import (
	"math"
	"strconv"
)

// ValueKind tells which field of a Value is meaningful.
type ValueKind int

const (
	// KindNull is a missing cell
	KindNull ValueKind = iota
	// KindText is an opaque string (option code, label or free text)
	KindText
	// KindNumber is a real number
	KindNumber
	// KindBool is a strict boolean
	KindBool
)

// Value is one cell of a Table.
// The zero Value is null.
type Value struct {
	kind ValueKind
	text string
	num  float64
	flag bool
}

// Null returns a missing cell.
func Null() Value {
	return Value{}
}

// Text returns a string cell. The empty string is stored as null, matching how
// blank cells in the raw exports are read.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Number returns a numeric cell. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean cell.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Kind returns the cell kind
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the cell is missing
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the text of a text cell and false for any other kind.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}

// Float returns the number of a numeric cell and false for any other kind.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Boolean returns the flag of a boolean cell and false for any other kind.
func (v Value) Boolean() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// String renders the cell for delimited output. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Equal compare Value.
func (v Value) Equal(v2 Value) bool {
	if v.kind != v2.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == v2.text
	case KindNumber:
		return v.num == v2.num
	case KindBool:
		return v.flag == v2.flag
	default:
		return true
	}
}
