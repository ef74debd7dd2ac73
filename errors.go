package surveydash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/surveydash/domain/model"
)

var (
	// ErrDuplicateColumnName is returned when a raw export repeats a column name
	ErrDuplicateColumnName = model.ErrDuplicateColumnName

	// ErrEmptyData indicates that a raw export has no header row
	ErrEmptyData = errors.New("surveydash: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("surveydash: unsupported file format")

	// ErrInvalidData indicates malformed or invalid data
	ErrInvalidData = errors.New("surveydash: invalid data format")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("surveydash: file not found")

	// ErrSchemaMiss indicates that a projected column is absent from a raw export
	ErrSchemaMiss = errors.New("surveydash: projected column missing")

	// ErrNoInputs indicates that the pipeline has no raw file for a variant and country
	ErrNoInputs = errors.New("surveydash: no raw input")
)

// SchemaMissError lists every projected column a variant's export lacks.
// It signals drift between the questionnaire and the registry.
type SchemaMissError struct {
	Variant model.Variant
	// Country is the export that lacks the columns, empty when the merged variant does
	Country string
	Missing []string
}

// Error implements error
func (e *SchemaMissError) Error() string {
	source := e.Variant.String()
	if e.Country != "" {
		source += "/" + e.Country
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaMiss.Error(), source, strings.Join(e.Missing, ", "))
}

// Is reports ErrSchemaMiss
func (e *SchemaMissError) Is(target error) bool {
	return target == ErrSchemaMiss
}

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("surveydash: %s failed", ec.Operation)}
	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return errors.New(context)
}
