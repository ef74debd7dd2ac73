package model

// ColumnType is the storage type chosen for a column in Parquet and SQL outputs.
type ColumnType int

const (
	// ColumnTypeText represents TEXT column type
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents INTEGER column type
	ColumnTypeInteger
	// ColumnTypeReal represents REAL column type
	ColumnTypeReal
	// ColumnTypeBoolean represents a boolean column (stored as INTEGER 0/1 in SQLite)
	ColumnTypeBoolean
)

const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// String returns the SQL column type string
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeInteger, ColumnTypeBoolean:
		return sqlTypeInteger
	case ColumnTypeReal:
		return sqlTypeReal
	default:
		return sqlTypeText
	}
}

// ColumnInfo represents column information with name and inferred type
type ColumnInfo struct {
	Name string
	Type ColumnType
}

// InferColumnType infers the storage type of a column from its cells.
// Null cells are ignored; a column with only nulls, or with mixed kinds, is TEXT.
// A numeric column whose values are all whole numbers is INTEGER.
func InferColumnType(values []Value) ColumnType {
	hasText := false
	hasNumber := false
	hasBool := false
	allWhole := true

	for _, v := range values {
		switch v.Kind() {
		case KindText:
			hasText = true
		case KindNumber:
			hasNumber = true
			f, _ := v.Float()
			if f != float64(int64(f)) {
				allWhole = false
			}
		case KindBool:
			hasBool = true
		}
	}

	kinds := 0
	for _, has := range []bool{hasText, hasNumber, hasBool} {
		if has {
			kinds++
		}
	}
	if kinds != 1 {
		return ColumnTypeText
	}
	switch {
	case hasBool:
		return ColumnTypeBoolean
	case hasNumber && allWhole:
		return ColumnTypeInteger
	case hasNumber:
		return ColumnTypeReal
	default:
		return ColumnTypeText
	}
}

// InferColumnsInfo infers column information for every column of a table
func InferColumnsInfo(t *Table) []ColumnInfo {
	header := t.Header()
	if len(header) == 0 {
		return nil
	}

	columns := make([]ColumnInfo, len(header))
	values := make([]Value, t.Len())
	for i, name := range header {
		for r, rec := range t.Records() {
			values[r] = rec[i]
		}
		columns[i] = ColumnInfo{
			Name: name,
			Type: InferColumnType(values),
		}
	}
	return columns
}
