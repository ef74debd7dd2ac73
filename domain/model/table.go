package model

import (
	"fmt"
)

// Header is the ordered list of column names.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Index returns the position of name or -1.
func (h Header) Index(name string) int {
	for i, v := range h {
		if v == name {
			return i
		}
	}
	return -1
}

// Record is one row; cell i belongs to header column i.
type Record []Value

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if !v.Equal(r2[i]) {
			return false
		}
	}
	return true
}

// Table is an in-memory rectangular dataset.
// Pipeline stages treat tables as immutable and return new ones.
type Table struct {
	// name identifies the table in snapshots and SQL views
	name    string
	header  Header
	records []Record
}

// NewTable create new Table. Records shorter than the header are padded with nulls.
func NewTable(name string, header Header, records []Record) (*Table, error) {
	seen := make(map[string]struct{}, len(header))
	for _, col := range header {
		if _, ok := seen[col]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[col] = struct{}{}
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("record %d has %d cells, header has %d", i, len(rec), len(header))
		}
		if len(rec) < len(header) {
			padded := make(Record, len(header))
			copy(padded, rec)
			records[i] = padded
		}
	}
	return &Table{
		name:    name,
		header:  header,
		records: records,
	}, nil
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Header return table header.
func (t *Table) Header() Header {
	return t.header
}

// Records return table records.
func (t *Table) Records() []Record {
	return t.records
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.records)
}

// ColumnIndex returns the position of a column or -1
func (t *Table) ColumnIndex(name string) int {
	return t.header.Index(name)
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	return t.header.Index(name) >= 0
}

// Column returns a copy of every cell of the named column, or false if it does not exist.
func (t *Table) Column(name string) ([]Value, bool) {
	idx := t.header.Index(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]Value, len(t.records))
	for i, rec := range t.records {
		values[i] = rec[idx]
	}
	return values, true
}

// Cell returns the value at row i of the named column. Unknown columns read as null.
func (t *Table) Cell(row int, name string) Value {
	idx := t.header.Index(name)
	if idx < 0 || row < 0 || row >= len(t.records) {
		return Null()
	}
	return t.records[row][idx]
}

// WithName returns a shallow copy under another name.
func (t *Table) WithName(name string) *Table {
	return &Table{name: name, header: t.header, records: t.records}
}

// Filter returns the rows for which mask is true, in order.
func (t *Table) Filter(mask []bool) (*Table, error) {
	if len(mask) != len(t.records) {
		return nil, fmt.Errorf("%w: mask %d, table %d", ErrMaskLength, len(mask), len(t.records))
	}
	records := make([]Record, 0, len(t.records))
	for i, keep := range mask {
		if keep {
			records = append(records, t.records[i])
		}
	}
	return &Table{name: t.name, header: t.header, records: records}, nil
}

// Select returns the named columns in the given order. Missing columns are reported
// together so callers can surface every absent name at once.
func (t *Table) Select(columns []string) (*Table, []string) {
	indices := make([]int, len(columns))
	var missing []string
	for i, col := range columns {
		indices[i] = t.header.Index(col)
		if indices[i] < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}
	records := make([]Record, len(t.records))
	for r, rec := range t.records {
		row := make(Record, len(indices))
		for i, idx := range indices {
			row[i] = rec[idx]
		}
		records[r] = row
	}
	header := make(Header, len(columns))
	copy(header, columns)
	return &Table{name: t.name, header: header, records: records}, nil
}

// Equal compare Table.
func (t *Table) Equal(t2 *Table) bool {
	if t.Name() != t2.Name() {
		return false
	}
	if !t.header.Equal(t2.header) {
		return false
	}
	if len(t.Records()) != len(t2.Records()) {
		return false
	}
	for i, record := range t.Records() {
		if !record.Equal(t2.Records()[i]) {
			return false
		}
	}
	return true
}
