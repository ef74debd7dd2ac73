package surveydash

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// completeAfterPage is the last page of the consent and screening block.
// Responses that stopped at or before it carry no answers worth analysing.
const completeAfterPage = 2

// Normalise turns an ingested variant table into its canonical form:
//
//  1. raw columns are renamed through the registry, unknown columns pass through
//  2. the language tag is recoded into a full country name
//  3. rows with last_page <= 2, or without a numeric last_page, are dropped
//  4. the table is projected onto the variant's declared columns
//  5. the variant prefix is stripped from every column
//  6. a survey_type column is stamped with the variant name
//
// A projected column that the export lacks fails with a *SchemaMissError.
// Two raw columns that rename to the same canonical column are coalesced,
// the first non-null cell winning.
func Normalise(reg *registry.Registry, variant model.Variant, t *model.Table, logger *slog.Logger) (*model.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	renamed, err := renameColumns(reg, variant, t)
	if err != nil {
		return nil, err
	}

	project := reg.Project(variant)
	if missing := missingColumns(project, renamed.HasColumn); len(missing) > 0 {
		return nil, &SchemaMissError{Variant: variant, Missing: missing}
	}

	countryIdx := renamed.ColumnIndex(registry.ColumnCountry)
	pageIdx := renamed.ColumnIndex(registry.ColumnLastPage)
	idIdx := renamed.ColumnIndex(registry.ColumnID)

	kept := make([]model.Record, 0, renamed.Len())
	for _, rec := range renamed.Records() {
		page, ok := parseNumber(rec[pageIdx])
		if !ok || page <= completeAfterPage {
			continue
		}
		out := make(model.Record, len(rec))
		copy(out, rec)
		out[pageIdx] = model.Number(page)
		out[countryIdx] = recodeCountry(rec[countryIdx], logger)
		if id, ok := parseNumber(rec[idIdx]); ok {
			out[idIdx] = model.Number(id)
		}
		kept = append(kept, out)
	}
	logger.Info("dropped incomplete responses",
		slog.String("variant", variant.String()),
		slog.Int("rows_in", renamed.Len()),
		slog.Int("rows_out", len(kept)))

	filtered, err := model.NewTable(renamed.Name(), renamed.Header(), kept)
	if err != nil {
		return nil, err
	}
	projected, missing := filtered.Select(project)
	if len(missing) > 0 {
		return nil, &SchemaMissError{Variant: variant, Missing: missing}
	}

	header := make(model.Header, 0, len(project)+1)
	for _, col := range projected.Header() {
		header = append(header, registry.StripPrefix(variant, col))
	}
	header = append(header, registry.ColumnSurveyType)

	stamp := model.Text(variant.String())
	records := make([]model.Record, projected.Len())
	for i, rec := range projected.Records() {
		out := make(model.Record, len(rec), len(rec)+1)
		copy(out, rec)
		records[i] = append(out, stamp)
	}
	return model.NewTable(variant.Slug(), header, records)
}

// renameColumns applies registry renames, coalescing columns that collide.
// CheckExportSchema reports a *SchemaMissError naming the country when the
// header of one country export, once renamed, lacks a projected column.
func CheckExportSchema(reg *registry.Registry, variant model.Variant, country model.Country, header model.Header) error {
	renamed := make(map[string]struct{}, len(header))
	for _, raw := range header {
		renamed[reg.Rename(variant, raw)] = struct{}{}
	}
	missing := missingColumns(reg.Project(variant), func(col string) bool {
		_, ok := renamed[col]
		return ok
	})
	if len(missing) > 0 {
		return &SchemaMissError{Variant: variant, Country: country.String(), Missing: missing}
	}
	return nil
}

func missingColumns(project []string, has func(string) bool) []string {
	var missing []string
	for _, col := range project {
		if !has(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func renameColumns(reg *registry.Registry, variant model.Variant, t *model.Table) (*model.Table, error) {
	var header model.Header
	target := make([]int, len(t.Header()))
	index := make(map[string]int, len(t.Header()))
	for i, raw := range t.Header() {
		canonical := reg.Rename(variant, raw)
		pos, ok := index[canonical]
		if !ok {
			pos = len(header)
			index[canonical] = pos
			header = append(header, canonical)
		}
		target[i] = pos
	}

	records := make([]model.Record, t.Len())
	for r, rec := range t.Records() {
		out := make(model.Record, len(header))
		for i, v := range rec {
			if out[target[i]].IsNull() {
				out[target[i]] = v
			}
		}
		records[r] = out
	}
	return model.NewTable(t.Name(), header, records)
}

// recodeCountry maps a language tag to the full country name. Values that are
// already country names are kept; anything else passes through and is logged.
func recodeCountry(v model.Value, logger *slog.Logger) model.Value {
	s, ok := v.Str()
	if !ok {
		return v
	}
	if c, ok := model.CountryFromLanguage(s); ok {
		return model.Text(c.Name())
	}
	if _, ok := model.CountryFromName(s); !ok {
		logger.Debug("unrecognised language tag", slog.String("value", s))
	}
	return v
}

// parseNumber reads a numeric cell or a text cell holding a plain number
func parseNumber(v model.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
