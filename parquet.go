package surveydash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/nao1215/surveydash/domain/model"
)

// parquetCreatedBy is stamped into the file metadata instead of the library version
const parquetCreatedBy = "surveydash"

// arrowSchema maps inferred column types onto nullable Arrow fields
func arrowSchema(t *model.Table) (*arrow.Schema, []model.ColumnType) {
	columns := model.InferColumnsInfo(t)
	fields := make([]arrow.Field, len(columns))
	types := make([]model.ColumnType, len(columns))
	for i, col := range columns {
		types[i] = col.Type
		var dt arrow.DataType
		switch col.Type {
		case model.ColumnTypeInteger:
			dt = arrow.PrimitiveTypes.Int64
		case model.ColumnTypeReal:
			dt = arrow.PrimitiveTypes.Float64
		case model.ColumnTypeBoolean:
			dt = arrow.FixedWidthTypes.Boolean
		default:
			dt = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: col.Name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), types
}

// writeParquet writes t as a single row group with zstd-compressed column chunks.
func writeParquet(w io.Writer, t *model.Table) error {
	schema, types := arrowSchema(t)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i, colType := range types {
		field := builder.Field(i)
		for _, rec := range t.Records() {
			if err := appendArrowValue(field, colType, rec[i]); err != nil {
				return fmt.Errorf("column %s: %w", t.Header()[i], err)
			}
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithCreatedBy(parquetCreatedBy),
	)
	writer, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return writer.Close()
}

func appendArrowValue(b array.Builder, colType model.ColumnType, v model.Value) error {
	if v.IsNull() {
		b.AppendNull()
		return nil
	}
	switch colType {
	case model.ColumnTypeInteger:
		f, _ := v.Float()
		b.(*array.Int64Builder).Append(int64(f))
	case model.ColumnTypeReal:
		f, _ := v.Float()
		b.(*array.Float64Builder).Append(f)
	case model.ColumnTypeBoolean:
		flag, _ := v.Boolean()
		b.(*array.BooleanBuilder).Append(flag)
	case model.ColumnTypeText:
		b.(*array.StringBuilder).Append(v.String())
	default:
		return fmt.Errorf("%w: column type %v", ErrUnsupportedFormat, colType)
	}
	return nil
}

// readParquet reads a Parquet snapshot back into a table keeping column types.
func readParquet(ctx context.Context, name string, data []byte) (*model.Table, error) {
	if len(data) == 0 {
		return nil, errors.New("empty parquet file")
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader from bytes: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	header := make(model.Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}

	tableReader := array.NewTableReader(tbl, 0)
	defer tableReader.Release()

	records := make([]model.Record, 0, tbl.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make(model.Record, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = valueFromArrow(col, i)
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}
	return model.NewTable(name, header, records)
}

// valueFromArrow converts one Arrow cell into a Value
func valueFromArrow(col arrow.Array, i int) model.Value {
	if col.IsNull(i) {
		return model.Null()
	}
	switch arr := col.(type) {
	case *array.String:
		return model.Text(arr.Value(i))
	case *array.LargeString:
		return model.Text(arr.Value(i))
	case *array.Int64:
		return model.Number(float64(arr.Value(i)))
	case *array.Int32:
		return model.Number(float64(arr.Value(i)))
	case *array.Float64:
		return model.Number(arr.Value(i))
	case *array.Float32:
		return model.Number(float64(arr.Value(i)))
	case *array.Boolean:
		return model.Bool(arr.Value(i))
	default:
		return model.Text(col.ValueStr(i))
	}
}
