package surveydash

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

type rawKey struct {
	variant int
	country int
}

func keyOf(f RawFile) rawKey {
	return rawKey{variant: int(f.Variant), country: int(f.Country)}
}

// DiscoverRawFiles lists the raw exports directly inside dir, ordered by variant
// (CSO first) and country (UK, DE, FR). Files not named <variant>_<country>.csv[.ext]
// are ignored. When both a plain and a compressed export exist for the same instance,
// the plain one wins.
func DiscoverRawFiles(dir string) ([]RawFile, error) {
	if err := newValidator().validatePath(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []RawFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := ParseRawFileName(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		files = append(files, f)
	}
	files = deduplicateCompressedFiles(files)
	sortRawFiles(files)
	return files, nil
}

// deduplicateCompressedFiles removes compressed files when their uncompressed versions exist
func deduplicateCompressedFiles(files []RawFile) []RawFile {
	chosen := make(map[rawKey]RawFile, len(files))
	for _, f := range files {
		if !f.Compressed() {
			chosen[keyOf(f)] = f
		}
	}
	for _, f := range files {
		if _, exists := chosen[keyOf(f)]; !exists {
			chosen[keyOf(f)] = f
		}
	}

	result := make([]RawFile, 0, len(chosen))
	for _, f := range chosen {
		result = append(result, f)
	}
	return result
}

// sortRawFiles orders exports by variant then country, then path for stability
func sortRawFiles(files []RawFile) {
	slices.SortFunc(files, func(a, b RawFile) int {
		return cmp.Or(
			cmp.Compare(a.Variant, b.Variant),
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.Path, b.Path),
		)
	})
}
