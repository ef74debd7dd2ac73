package surveydash

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/surveydash/domain/model"
)

// validator handles validation logic for PipelineBuilder
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validatePath validates a single file or directory path
func (v *validator) validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}

	if !info.IsDir() && !isSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// validateOutputDirectory validates that the output directory can be created/accessed
func (v *validator) validateOutputDirectory(outputDir string) error {
	if outputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	info, err := os.Stat(outputDir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("output path exists but is not a directory: %s", outputDir)
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("failed to check output directory: %w", err)
	}
	return nil
}

// validateInputs checks that every variant has exactly one export per country
func (v *validator) validateInputs(files []RawFile) error {
	seen := make(map[rawKey]string, len(files))
	for _, f := range files {
		if prev, dup := seen[keyOf(f)]; dup {
			return fmt.Errorf("%w: %s/%s given twice: %s and %s", ErrInvalidData, f.Variant, f.Country, prev, f.Path)
		}
		seen[keyOf(f)] = f.Path
	}

	var missing []string
	for _, variant := range model.Variants() {
		for _, country := range model.Countries() {
			if _, ok := seen[rawKey{variant: int(variant), country: int(country)}]; !ok {
				missing = append(missing, RawFileName(variant, country))
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNoInputs, strings.Join(missing, ", "))
	}
	return nil
}
