package surveydash

// SnapshotFormat is one artifact form of a snapshot
type SnapshotFormat int

const (
	// FormatParquet is the binary form, typed and zstd-compressed, for fast reload
	FormatParquet SnapshotFormat = iota
	// FormatXLSX is the spreadsheet form for human inspection
	FormatXLSX
	// FormatCSV is the comma-separated form for portability
	FormatCSV
)

// String returns the string representation of SnapshotFormat
func (f SnapshotFormat) String() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f SnapshotFormat) Extension() string {
	switch f {
	case FormatParquet:
		return ".parquet"
	case FormatXLSX:
		return ".xlsx"
	default:
		return extCSV
	}
}

// SnapshotOptions configures which artifacts a SnapshotStore writes.
//
// Example:
//
//	options := NewSnapshotOptions().
//		WithFormats(FormatParquet, FormatCSV).
//		WithCompression(CompressionZSTD)
//
//	store := NewSnapshotStore("./snapshots", options)
type SnapshotOptions struct {
	// Formats lists the artifacts written per table
	Formats []SnapshotFormat
	// Compression applies to the delimited form only
	Compression CompressionType
}

// NewSnapshotOptions creates default options: all three forms, uncompressed CSV.
func NewSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		Formats:     []SnapshotFormat{FormatParquet, FormatXLSX, FormatCSV},
		Compression: CompressionNone,
	}
}

// WithFormats restricts the written artifacts.
func (o SnapshotOptions) WithFormats(formats ...SnapshotFormat) SnapshotOptions {
	o.Formats = append([]SnapshotFormat(nil), formats...)
	return o
}

// WithCompression compresses the delimited form.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
func (o SnapshotOptions) WithCompression(compression CompressionType) SnapshotOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension of a format, including compression
func (o SnapshotOptions) FileExtension(format SnapshotFormat) string {
	if format == FormatCSV {
		return format.Extension() + o.Compression.Extension()
	}
	return format.Extension()
}
