package surveydash

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nao1215/surveydash/domain/model"
)

// LoadSnapshot reads a snapshot artifact written by SnapshotStore. The form is chosen
// by extension: .parquet keeps column types, .xlsx and .csv[.gz|.xz|.zst] restore
// numbers and booleans where a whole column parses as such. The table is named after
// the file.
func LoadSnapshot(ctx context.Context, path string) (*model.Table, error) {
	base := removeCompressionExtension(path)
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	ectx := NewErrorContext("load snapshot", path).WithTable(name)

	reader, closer, err := openDecompressed(path)
	if err != nil {
		return nil, ectx.Error(wrapNotFound(err))
	}
	defer func() {
		_ = closer() // read-only handle
	}()

	var t *model.Table
	switch ext {
	case FormatParquet.Extension(), FormatXLSX.Extension():
		// both forms need random access
		data, readErr := io.ReadAll(reader)
		if readErr != nil {
			return nil, ectx.Error(readErr)
		}
		if ext == FormatParquet.Extension() {
			t, err = readParquet(ctx, name, data)
		} else {
			t, err = readXLSX(name, data)
		}
	case FormatCSV.Extension():
		t, err = readCSV(name, reader)
	default:
		return nil, ectx.Error(fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext))
	}
	if err != nil {
		return nil, ectx.Error(err)
	}
	return t, nil
}
