package surveydash

import (
	"log/slog"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// numericLiterals are answers to free-text numeric questions that do not parse as numbers.
// A nil pointer maps to null.
var numericLiterals = map[string]*float64{
	"?":       nil,
	"<1":      ptr(0.5),
	"0,5":     ptr(0.5),
	"20+":     ptr(20),
	"15+":     ptr(15),
	"several": ptr(3),
	" ca 10":  ptr(10),
}

// leadingNumber matches a number at the start of a free-text answer, e.g. "10 fois."
var leadingNumber = regexp.MustCompile(`(?i)^\s*(?:ca\.?\s*)?(\d+(?:[.,]\d+)?)(?:$|[^\p{L}\d])`)

// plainNumber is an unsigned decimal, the only form taken verbatim
var plainNumber = regexp.MustCompile(`^\s*\d+(?:\.\d+)?\s*$`)

// optionCode matches the platform's answer codes
var optionCode = regexp.MustCompile(`^AO\d+$`)

func ptr(f float64) *float64 {
	return &f
}

// Decode replaces option codes with labels and coerces cells by variable kind:
//
//   - categorical cells are looked up in the registry's map for the row's country,
//     codes without a mapping are left unchanged
//   - multi-select cells become booleans, the platform's "Y" marker being true and
//     blank being false
//   - numeric cells go through the literal map, then number parsing, then leading
//     number extraction, and become null when nothing matches
//   - rank, free-text and meta cells are left as they are
//
// Decoding an already decoded table returns an equal table.
func Decode(reg *registry.Registry, variant model.Variant, t *model.Table, logger *slog.Logger) (*model.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	header := t.Header()
	kinds := make([]registry.Kind, len(header))
	known := make([]bool, len(header))
	for i, col := range header {
		kinds[i], known[i] = reg.KindOf(variant, col)
	}

	countries := rowCountries(t)
	cache := newDecodeCache(reg, variant)
	anomalies := make(map[string]int)

	records := make([]model.Record, t.Len())
	for r, rec := range t.Records() {
		out := make(model.Record, len(rec))
		for i, v := range rec {
			if !known[i] {
				out[i] = v
				continue
			}
			switch kinds[i] {
			case registry.KindCategorical:
				decoded, ok := decodeCategorical(v, cache.lookup(header[i], countries[r]))
				if !ok {
					anomalies[header[i]+"="+v.String()]++
				}
				out[i] = decoded
			case registry.KindMultiSelect:
				out[i] = CoerceBool(v)
			case registry.KindNumeric:
				out[i] = CoerceNumber(v)
			default:
				out[i] = v
			}
		}
		records[r] = out
	}

	for _, key := range slices.Sorted(maps.Keys(anomalies)) {
		n := anomalies[key]
		logger.Debug("option code without mapping",
			slog.String("variant", variant.String()),
			slog.String("cell", key),
			slog.Int("rows", n))
	}
	return model.NewTable(t.Name(), header, records)
}

// rowCountries resolves each row's country from the country column. Rows with an
// unknown country get -1, which selects the base decode map.
func rowCountries(t *model.Table) []model.Country {
	countries := make([]model.Country, t.Len())
	for r := range countries {
		countries[r] = -1
		name, ok := t.Cell(r, registry.ColumnCountry).Str()
		if !ok {
			continue
		}
		if c, ok := model.CountryFromName(name); ok {
			countries[r] = c
		}
	}
	return countries
}

type decodeKey struct {
	column  string
	country model.Country
}

// decodeCache memoises registry maps per column and country
type decodeCache struct {
	reg     *registry.Registry
	variant model.Variant
	maps    map[decodeKey]map[string]string
}

func newDecodeCache(reg *registry.Registry, variant model.Variant) *decodeCache {
	return &decodeCache{reg: reg, variant: variant, maps: make(map[decodeKey]map[string]string)}
}

func (c *decodeCache) lookup(column string, country model.Country) map[string]string {
	key := decodeKey{column: column, country: country}
	if m, ok := c.maps[key]; ok {
		return m
	}
	var m map[string]string
	if country < 0 {
		m = c.reg.DecodeBase(c.variant, column)
	} else {
		m = c.reg.Decode(c.variant, column, country)
	}
	c.maps[key] = m
	return m
}

// decodeCategorical substitutes a code. The second result is false for cells that
// look like option codes but have no mapping.
func decodeCategorical(v model.Value, m map[string]string) (model.Value, bool) {
	s, ok := v.Str()
	if !ok {
		return v, true
	}
	if label, ok := m[s]; ok {
		return model.Text(label), true
	}
	return v, !optionCode.MatchString(s)
}

// CoerceBool converts a multi-select cell into a strict boolean.
// Null is false and the platform marker "Y" is true.
func CoerceBool(v model.Value) model.Value {
	switch v.Kind() {
	case model.KindBool:
		return v
	case model.KindNull:
		return model.Bool(false)
	case model.KindNumber:
		f, _ := v.Float()
		return model.Bool(f != 0)
	}
	s, _ := v.Str()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n", "no", "false", "0":
		return model.Bool(false)
	default:
		return model.Bool(true)
	}
}

// CoerceNumber converts a free-text numeric answer into a real number or null.
func CoerceNumber(v model.Value) model.Value {
	switch v.Kind() {
	case model.KindNumber, model.KindNull:
		return v
	case model.KindBool:
		return model.Null()
	}
	s, _ := v.Str()

	if f, ok := lookupLiteral(s); ok {
		if f == nil {
			return model.Null()
		}
		return model.Number(*f)
	}
	if plainNumber.MatchString(s) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) {
			return model.Number(f)
		}
	}
	if m := leadingNumber.FindStringSubmatch(s); m != nil {
		if f, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
			return model.Number(f)
		}
	}
	return model.Null()
}

func lookupLiteral(s string) (*float64, bool) {
	if f, ok := numericLiterals[s]; ok {
		return f, true
	}
	f, ok := numericLiterals[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}
