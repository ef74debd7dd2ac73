// Package model provides domain model for surveydash
package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a table would contain the same column twice
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrUnknownVariant is returned when a variant name cannot be parsed
	ErrUnknownVariant = errors.New("unknown survey variant")

	// ErrUnknownCountry is returned when a country code, name or language tag cannot be parsed
	ErrUnknownCountry = errors.New("unknown country")

	// ErrMaskLength is returned when a row mask does not match the table length
	ErrMaskLength = errors.New("row mask length does not match table")
)
