package surveydash

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/surveydash/domain/model"
)

const (
	// defaultSheet is the sheet excelize creates with a new workbook
	defaultSheet = "Sheet1"
	// maxSheetName is the spreadsheet limit on sheet name length
	maxSheetName = 31
	// fixedTimestamp replaces creation and modification times so workbooks are reproducible
	fixedTimestamp = "2000-01-01T00:00:00Z"
)

// writeXLSX writes t as a single-sheet workbook named after the table.
func writeXLSX(w io.Writer, t *model.Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := t.Name()
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        "surveydash",
		LastModifiedBy: "surveydash",
		Title:          t.Name(),
		Created:        fixedTimestamp,
		Modified:       fixedTimestamp,
	}); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Header()))
	for i, col := range t.Header() {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, rec := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for i, v := range rec {
			row[i] = xlsxCell(v)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("row %d: %w", r+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// xlsxCell converts a Value into a cell value; null leaves the cell empty
func xlsxCell(v model.Value) interface{} {
	switch v.Kind() {
	case model.KindText:
		s, _ := v.Str()
		return s
	case model.KindNumber:
		f, _ := v.Float()
		return f
	case model.KindBool:
		b, _ := v.Boolean()
		return b
	default:
		return nil
	}
}

// readXLSX reads the first sheet of a workbook. Cells come back as text.
func readXLSX(name string, data []byte) (*model.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in workbook", ErrEmptyData)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrEmptyData, sheets[0])
	}
	return textTable(name, rows[0], rows[1:])
}
