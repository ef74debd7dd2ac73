package model

import (
	"fmt"
	"strings"
)

// Variant is one of the two parallel questionnaires.
type Variant int

const (
	// VariantCSO is the questionnaire for civil-society organisations
	VariantCSO Variant = iota
	// VariantMedia is the questionnaire for media professionals
	VariantMedia
)

// Variants lists every variant in pipeline order (CSO rows precede Media rows).
func Variants() []Variant {
	return []Variant{VariantCSO, VariantMedia}
}

// String returns the value stamped into the survey_type column
func (v Variant) String() string {
	switch v {
	case VariantCSO:
		return "CSO"
	case VariantMedia:
		return "Media"
	default:
		return "unknown"
	}
}

// Prefix returns the two-character prefix the questionnaire platform puts on every question code
func (v Variant) Prefix() string {
	switch v {
	case VariantCSO:
		return "CS"
	case VariantMedia:
		return "MS"
	default:
		return ""
	}
}

// Slug returns the lower-case name used in file names
func (v Variant) Slug() string {
	return strings.ToLower(v.String())
}

// ParseVariant parses "cso", "CSO", "media" or "Media".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cso":
		return VariantCSO, nil
	case "media":
		return VariantMedia, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Country is one of the three country instances of the questionnaire.
type Country int

const (
	// CountryUK is the United Kingdom instance (English)
	CountryUK Country = iota
	// CountryDE is the German instance
	CountryDE
	// CountryFR is the French instance
	CountryFR
)

// Countries returns the fixed country order used for ingestion and per-country frames.
func Countries() []Country {
	return []Country{CountryUK, CountryDE, CountryFR}
}

// String returns the two-letter code
func (c Country) String() string {
	switch c {
	case CountryUK:
		return "UK"
	case CountryDE:
		return "DE"
	case CountryFR:
		return "FR"
	default:
		return "unknown"
	}
}

// Name returns the full country name stored in the country column
func (c Country) Name() string {
	switch c {
	case CountryUK:
		return "United Kingdom"
	case CountryDE:
		return "Germany"
	case CountryFR:
		return "France"
	default:
		return ""
	}
}

// Language returns the language tag the platform writes into startlanguage
func (c Country) Language() string {
	switch c {
	case CountryUK:
		return "en"
	case CountryDE:
		return "de"
	case CountryFR:
		return "fr"
	default:
		return ""
	}
}

// Slug returns the lower-case code used in file names
func (c Country) Slug() string {
	return strings.ToLower(c.String())
}

// CountryFromLanguage maps a startlanguage tag to its country.
func CountryFromLanguage(tag string) (Country, bool) {
	for _, c := range Countries() {
		if strings.EqualFold(strings.TrimSpace(tag), c.Language()) {
			return c, true
		}
	}
	return 0, false
}

// CountryFromName maps a full country name to its country.
func CountryFromName(name string) (Country, bool) {
	for _, c := range Countries() {
		if name == c.Name() {
			return c, true
		}
	}
	return 0, false
}

// ParseCountry accepts a two-letter code, a full name or a language tag.
func ParseCountry(s string) (Country, error) {
	s = strings.TrimSpace(s)
	for _, c := range Countries() {
		if strings.EqualFold(s, c.String()) || strings.EqualFold(s, c.Name()) {
			return c, nil
		}
	}
	if c, ok := CountryFromLanguage(s); ok {
		return c, nil
	}
	if strings.EqualFold(s, "GB") {
		return CountryUK, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCountry, s)
}
