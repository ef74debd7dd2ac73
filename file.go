package surveydash

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nao1215/surveydash/domain/model"
)

const (
	// extCSV is the extension of raw exports and delimited snapshots
	extCSV = ".csv"
	// rawDelimiter is the field delimiter of raw exports
	rawDelimiter = ';'
)

// utf8BOM is the byte-order mark the platform prepends to exports
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RawFile is one country export of one variant.
type RawFile struct {
	Path    string
	Variant model.Variant
	Country model.Country
}

// String returns "<variant>/<country>: <path>"
func (f RawFile) String() string {
	return fmt.Sprintf("%s/%s: %s", f.Variant, f.Country, f.Path)
}

// Compressed reports whether the export is stored compressed
func (f RawFile) Compressed() bool {
	return detectCompressionType(f.Path) != CompressionNone
}

// RawFileName returns the canonical file name of a raw export, e.g. cso_uk.csv.
func RawFileName(v model.Variant, c model.Country) string {
	return v.Slug() + "_" + c.Slug() + extCSV
}

// ParseRawFileName recognises a raw export path named <variant>_<country>.csv,
// optionally followed by a compression extension.
func ParseRawFileName(path string) (RawFile, error) {
	base := filepath.Base(removeCompressionExtension(path))
	if !strings.EqualFold(filepath.Ext(base), extCSV) {
		return RawFile{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	stem := base[:len(base)-len(extCSV)]

	variantPart, countryPart, ok := strings.Cut(stem, "_")
	if !ok {
		return RawFile{}, fmt.Errorf("%w: %s is not named <variant>_<country>.csv", ErrUnsupportedFormat, path)
	}
	variant, err := model.ParseVariant(variantPart)
	if err != nil {
		return RawFile{}, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}
	country, err := model.ParseCountry(countryPart)
	if err != nil {
		return RawFile{}, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}
	return RawFile{Path: path, Variant: variant, Country: country}, nil
}

// isSupportedFile reports whether path looks like a raw export
func isSupportedFile(path string) bool {
	_, err := ParseRawFileName(path)
	return err == nil
}

// rawContent is one parsed export: the header and the string cells of every row.
type rawContent struct {
	header model.Header
	rows   [][]string
}

// readRawFile parses a semicolon-delimited export with transparent decompression.
func readRawFile(path string) (*rawContent, error) {
	reader, closer, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closer() // read-only handle
	}()
	return parseRaw(reader)
}

// parseRaw parses a semicolon-delimited export, stripping a leading byte-order mark.
func parseRaw(r io.Reader) (*rawContent, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	csvReader := csv.NewReader(br)
	csvReader.Comma = rawDelimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	head, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if err := validateColumnNames(head); err != nil {
		return nil, err
	}

	content := &rawContent{header: model.NewHeader(head)}
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		if len(row) > len(head) {
			line, _ := csvReader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrInvalidData, line, len(row), len(head))
		}
		content.rows = append(content.rows, row)
	}
	return content, nil
}

// validateColumnNames rejects repeated header names
func validateColumnNames(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, ok := seen[col]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[col] = struct{}{}
	}
	return nil
}
