package surveydash

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression applied to a raw export or a delimited snapshot
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression (read only)
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// codec describes one compression format. A nil writer marks a read-only format.
type codec struct {
	name    string
	ext     string
	aliases []string
	reader  func(io.Reader) (io.Reader, func() error, error)
	writer  func(io.Writer) (io.Writer, func() error, error)
}

var codecs = map[CompressionType]codec{
	CompressionGZ: {
		name: "gz", ext: ".gz", aliases: []string{"gzip"},
		reader: func(r io.Reader) (io.Reader, func() error, error) {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, zr.Close, nil
		},
		writer: func(w io.Writer) (io.Writer, func() error, error) {
			zw := gzip.NewWriter(w)
			return zw, zw.Close, nil
		},
	},
	CompressionBZ2: {
		name: "bz2", ext: ".bz2", aliases: []string{"bzip2"},
		reader: func(r io.Reader) (io.Reader, func() error, error) {
			return bzip2.NewReader(r), noopClose, nil
		},
	},
	CompressionXZ: {
		name: "xz", ext: ".xz",
		reader: func(r io.Reader) (io.Reader, func() error, error) {
			zr, err := xz.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, noopClose, nil
		},
		writer: func(w io.Writer) (io.Writer, func() error, error) {
			zw, err := xz.NewWriter(w)
			if err != nil {
				return nil, nil, err
			}
			return zw, zw.Close, nil
		},
	},
	CompressionZSTD: {
		name: "zstd", ext: ".zst", aliases: []string{"zst"},
		reader: func(r io.Reader) (io.Reader, func() error, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return dec, func() error { dec.Close(); return nil }, nil
		},
		writer: func(w io.Writer) (io.Writer, func() error, error) {
			// one encoder goroutine keeps the output independent of GOMAXPROCS
			enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
			if err != nil {
				return nil, nil, err
			}
			return enc, enc.Close, nil
		},
	},
}

// compressedTypes lists the compressed formats in a fixed order for suffix matching
var compressedTypes = []CompressionType{CompressionGZ, CompressionBZ2, CompressionXZ, CompressionZSTD}

// String returns the name accepted by ParseCompressionType
func (c CompressionType) String() string {
	if cd, ok := codecs[c]; ok {
		return cd.name
	}
	return "none"
}

// Extension returns the file suffix of the compression, "" for CompressionNone
func (c CompressionType) Extension() string {
	return codecs[c].ext
}

// ParseCompressionType parses a compression name as accepted on the command line.
func ParseCompressionType(s string) (CompressionType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "none" {
		return CompressionNone, nil
	}
	for _, c := range compressedTypes {
		cd := codecs[c]
		if name == cd.name || slices.Contains(cd.aliases, name) {
			return c, nil
		}
	}
	return CompressionNone, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, s)
}

// CompressionHandler wraps readers and writers with (de)compression. The close
// functions it returns flush the codec but never close the wrapped stream.
type CompressionHandler interface {
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	Extension() string
}

// NewCompressionHandler returns the handler of a compression type
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return compressionHandler(compressionType)
}

type compressionHandler CompressionType

func noopClose() error { return nil }

func (h compressionHandler) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	c := CompressionType(h)
	if c == CompressionNone {
		return reader, noopClose, nil
	}
	cd, ok := codecs[c]
	if !ok {
		return nil, nil, fmt.Errorf("%w: compression %d", ErrUnsupportedFormat, int(c))
	}
	r, closeFn, err := cd.reader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s stream: %w", cd.name, err)
	}
	return r, closeFn, nil
}

func (h compressionHandler) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	c := CompressionType(h)
	if c == CompressionNone {
		return writer, noopClose, nil
	}
	cd, ok := codecs[c]
	if !ok || cd.writer == nil {
		return nil, nil, fmt.Errorf("%w: writing %s", ErrUnsupportedFormat, c)
	}
	w, closeFn, err := cd.writer(writer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s writer: %w", cd.name, err)
	}
	return w, closeFn, nil
}

func (h compressionHandler) Extension() string {
	return CompressionType(h).Extension()
}

// detectCompressionType derives the compression of a file from its suffix
func detectCompressionType(path string) CompressionType {
	path = strings.ToLower(path)
	for _, c := range compressedTypes {
		if strings.HasSuffix(path, codecs[c].ext) {
			return c
		}
	}
	return CompressionNone
}

// removeCompressionExtension strips a compression suffix, keeping the original case
func removeCompressionExtension(path string) string {
	if c := detectCompressionType(path); c != CompressionNone {
		return path[:len(path)-len(c.Extension())]
	}
	return path
}

// openDecompressed opens a file and returns a reader that handles decompression
func openDecompressed(path string) (io.Reader, func() error, error) {
	file, err := os.Open(path) //nolint:gosec // raw export paths come from the operator
	if err != nil {
		return nil, nil, err
	}

	reader, cleanup, err := NewCompressionHandler(detectCompressionType(path)).CreateReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	return reader, func() error {
		cleanupErr := cleanup()
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}, nil
}
