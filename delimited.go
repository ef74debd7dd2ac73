package surveydash

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/surveydash/domain/model"
)

// writeCSV writes t comma-separated with a header row, optionally compressed.
// Null cells are empty.
func writeCSV(w io.Writer, t *model.Table, compression CompressionType) error {
	cw, closeCompressor, err := NewCompressionHandler(compression).CreateWriter(w)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(cw)
	if err := writer.Write(t.Header()); err != nil {
		return err
	}
	row := make([]string, len(t.Header()))
	for _, rec := range t.Records() {
		for i, v := range rec {
			row[i] = v.String()
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return closeCompressor()
}

// readCSV reads a comma-separated snapshot. Cells come back as text.
func readCSV(name string, r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyData
	}
	return textTable(name, rows[0], rows[1:])
}

// textTable builds a table from string cells, restoring numbers and booleans
// column by column where every non-empty cell parses.
func textTable(name string, head []string, rows [][]string) (*model.Table, error) {
	if err := validateColumnNames(head); err != nil {
		return nil, err
	}

	records := make([]model.Record, len(rows))
	for r, row := range rows {
		if len(row) > len(head) {
			return nil, errors.Join(ErrInvalidData, fmt.Errorf("row %d has %d cells, header has %d", r+1, len(row), len(head)))
		}
		rec := make(model.Record, len(head))
		for i, cell := range row {
			rec[i] = model.Text(cell)
		}
		records[r] = rec
	}

	for i := range head {
		retypeColumn(records, i)
	}
	return model.NewTable(name, model.NewHeader(head), records)
}

// retypeColumn converts a text column to numbers or booleans when every
// non-null cell parses as such.
func retypeColumn(records []model.Record, col int) {
	allNumbers, allBools, seen := true, true, false
	for _, rec := range records {
		v := rec[col]
		if v.IsNull() {
			continue
		}
		seen = true
		if _, ok := parseNumber(v); !ok {
			allNumbers = false
		}
		if _, ok := parseBool(v); !ok {
			allBools = false
		}
	}
	if !seen {
		return
	}
	for _, rec := range records {
		v := rec[col]
		if v.IsNull() {
			continue
		}
		switch {
		case allBools:
			b, _ := parseBool(v)
			rec[col] = model.Bool(b)
		case allNumbers:
			f, _ := parseNumber(v)
			rec[col] = model.Number(f)
		}
	}
}

func parseBool(v model.Value) (bool, bool) {
	s, _ := v.Str()
	switch s {
	case "true", "TRUE":
		return true, true
	case "false", "FALSE":
		return false, true
	default:
		return false, false
	}
}
