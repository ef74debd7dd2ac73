// Package registry is the schema registry of the survey instrument.
//
// It is the single place that knows how the questionnaire platform names columns and
// codes answers. Everything else in surveydash asks the registry three questions:
//
//   - Rename: which canonical column does a raw export column become?
//   - Project: which columns does a variant keep for analysis?
//   - Decode: which display label does a raw option code stand for, for a given
//     variable and country?
//
// Raw exports use opaque sub-question suffixes (SQ01, SQ02, ...) and answer codes
// (AO01, AO02, ...) that carry no meaning and that drifted between the country
// instances of the questionnaire. A Question declares both, so the drift is visible in
// one table instead of being spread across the pipeline.
package registry

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/surveydash/domain/model"
)

// Sentinel labels are non-answer answers kept as first-class categories.
const (
	// DontKnow is the sentinel label for "don't know" answers
	DontKnow = "I don't know"
	// PreferNotToSay is the sentinel label for refusals
	PreferNotToSay = "I prefer not to say"
)

// Meta columns shared by both variants. They carry no variant prefix.
const (
	ColumnID         = "id"
	ColumnLastPage   = "last_page"
	ColumnCountry    = "country"
	ColumnSurveyType = "survey_type"

	// RawLastPage is the exported progress column
	RawLastPage = "lastpage"
	// RawLanguage is the exported language-tag column
	RawLanguage = "startlanguage"
)

// Kind is the semantic kind of a question family.
type Kind int

const (
	// KindMeta is a bookkeeping column (id, progress, country)
	KindMeta Kind = iota
	// KindCategorical is a single-choice question decoded through an answer map
	KindCategorical
	// KindMultiSelect is a multiple-answer question with one boolean per option
	KindMultiSelect
	// KindRank is a ranking question; position k holds the label ranked k-th
	KindRank
	// KindNumeric is a free-text numeric answer coerced to a real number
	KindNumeric
	// KindFreeText is an opaque free-text answer
	KindFreeText
)

// String returns a readable kind name
func (k Kind) String() string {
	switch k {
	case KindMeta:
		return "meta"
	case KindCategorical:
		return "categorical"
	case KindMultiSelect:
		return "multi-select"
	case KindRank:
		return "rank"
	case KindNumeric:
		return "numeric"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Code is one answer option: the platform code and its display label.
type Code struct {
	Code  string
	Label string
}

// Option is one sub-question of a matrix or multi-select family.
type Option struct {
	// Code is the raw sub-question suffix, e.g. SQ02
	Code string
	// Name is the canonical suffix, e.g. vpn
	Name string
	// Label is the display label
	Label string
}

// Question declares one question family of a variant.
type Question struct {
	// Family is the canonical family name without prefix, e.g. foi4
	Family string
	// Raw is the family name as exported when it differs from Family (platform typos)
	Raw string
	// Title is the question text shown above charts
	Title string
	Kind  Kind
	// Options are the bracketed sub-questions, in display order
	Options []Option
	// Positions is the number of rank positions for KindRank
	Positions int
	// Answers is the base answer map in display order
	Answers []Code
	// Overrides fully replace Answers for a country
	Overrides map[model.Country][]Code
}

// rawFamily returns the exported family name.
func (q Question) rawFamily() string {
	if q.Raw != "" {
		return q.Raw
	}
	return q.Family
}

// Variable is one canonical column produced by a question.
type Variable struct {
	// Name is the canonical column name without prefix, e.g. protectops3[vpn]
	Name string
	// Family is the owning question family
	Family string
	Kind   Kind
	// Option is set for multi-select and matrix sub-questions
	Option *Option
	// Position is the 1-based rank position for rank items
	Position int
}

// variantSchema is the expanded, indexed form of a variant's questions.
type variantSchema struct {
	variant   model.Variant
	questions []Question
	families  map[string]int
	variables []Variable
	byName    map[string]int
	rename    map[string]string
	project   []string
}

// Registry answers rename, projection and decode lookups for both variants.
type Registry struct {
	schemas map[model.Variant]*variantSchema
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry of the deployed questionnaire.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(csoQuestions(), mediaQuestions())
		if err != nil {
			panic(fmt.Sprintf("registry: invalid built-in schema: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// New builds a registry from question declarations.
func New(cso, media []Question) (*Registry, error) {
	r := &Registry{schemas: make(map[model.Variant]*variantSchema, 2)}
	for variant, questions := range map[model.Variant][]Question{
		model.VariantCSO:   cso,
		model.VariantMedia: media,
	} {
		schema, err := buildSchema(variant, questions)
		if err != nil {
			return nil, err
		}
		r.schemas[variant] = schema
	}
	return r, nil
}

func buildSchema(variant model.Variant, questions []Question) (*variantSchema, error) {
	prefix := variant.Prefix()
	s := &variantSchema{
		variant:   variant,
		questions: questions,
		families:  make(map[string]int, len(questions)),
		byName:    make(map[string]int),
		rename: map[string]string{
			RawLastPage: ColumnLastPage,
			RawLanguage: ColumnCountry,
		},
		project: []string{ColumnID, ColumnLastPage, ColumnCountry},
	}
	for _, meta := range s.project {
		s.byName[meta] = len(s.variables)
		s.variables = append(s.variables, Variable{Name: meta, Family: meta, Kind: KindMeta})
	}

	for qi, q := range questions {
		if _, dup := s.families[q.Family]; dup {
			return nil, fmt.Errorf("%s: duplicate question family %s", variant, q.Family)
		}
		s.families[q.Family] = qi

		add := func(v Variable, rawCol string) error {
			if _, dup := s.byName[v.Name]; dup {
				return fmt.Errorf("%s: duplicate variable %s", variant, v.Name)
			}
			s.byName[v.Name] = len(s.variables)
			s.variables = append(s.variables, v)
			s.project = append(s.project, prefix+v.Name)
			if rawCol != prefix+v.Name {
				s.rename[rawCol] = prefix + v.Name
			}
			return nil
		}

		raw := prefix + q.rawFamily()
		switch {
		case q.Kind == KindRank:
			if q.Positions <= 0 {
				return nil, fmt.Errorf("%s: rank family %s has no positions", variant, q.Family)
			}
			for k := 1; k <= q.Positions; k++ {
				suffix := "[" + strconv.Itoa(k) + "]"
				if err := add(Variable{Name: q.Family + suffix, Family: q.Family, Kind: KindRank, Position: k}, raw+suffix); err != nil {
					return nil, err
				}
			}
		case len(q.Options) > 0:
			for oi := range q.Options {
				opt := q.Options[oi]
				name := q.Family + "[" + opt.Name + "]"
				if err := add(Variable{Name: name, Family: q.Family, Kind: q.Kind, Option: &opt}, raw+"["+opt.Code+"]"); err != nil {
					return nil, err
				}
			}
		default:
			if err := add(Variable{Name: q.Family, Family: q.Family, Kind: q.Kind}, raw); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (r *Registry) schema(v model.Variant) *variantSchema {
	s, ok := r.schemas[v]
	if !ok {
		return &variantSchema{variant: v, families: map[string]int{}, byName: map[string]int{}, rename: map[string]string{}}
	}
	return s
}

// Rename maps a raw export column to its canonical, still prefixed, column name.
// Unknown columns pass through unchanged.
func (r *Registry) Rename(v model.Variant, raw string) string {
	s := r.schema(v)
	if canonical, ok := s.rename[raw]; ok {
		return canonical
	}
	if fixed := fixTypos(v, raw); fixed != raw {
		if canonical, ok := s.rename[fixed]; ok {
			return canonical
		}
		return fixed
	}
	return raw
}

// fixTypos repairs known misspellings the platform baked into question codes.
func fixTypos(v model.Variant, raw string) string {
	fixed := strings.Replace(raw, "contstraintinter", "constraintinter", 1)
	fixed = strings.Replace(fixed, "protectleg2A", "protectleg2", 1)
	if v == model.VariantMedia && strings.HasPrefix(fixed, "MFfoi") {
		fixed = "MS" + strings.TrimPrefix(fixed, "MF")
	}
	return fixed
}

// Project returns the ordered list of prefixed columns a variant keeps for analysis.
func (r *Registry) Project(v model.Variant) []string {
	return slices.Clone(r.schema(v).project)
}

// StripPrefix removes the variant prefix from a column name if present.
func StripPrefix(v model.Variant, col string) string {
	return strings.TrimPrefix(col, v.Prefix())
}

// Columns returns the canonical columns of a variant after prefix stripping, in projection order.
func (r *Registry) Columns(v model.Variant) []string {
	project := r.schema(v).project
	cols := make([]string, len(project))
	for i, c := range project {
		cols[i] = StripPrefix(v, c)
	}
	return cols
}

// Variables returns every canonical variable of a variant in projection order.
func (r *Registry) Variables(v model.Variant) []Variable {
	return slices.Clone(r.schema(v).variables)
}

// Variable looks up a canonical variable by name, with or without prefix.
func (r *Registry) Variable(v model.Variant, name string) (Variable, bool) {
	s := r.schema(v)
	idx, ok := s.byName[StripPrefix(v, name)]
	if !ok {
		return Variable{}, false
	}
	return s.variables[idx], true
}

// KindOf returns the kind of a canonical variable.
func (r *Registry) KindOf(v model.Variant, name string) (Kind, bool) {
	variable, ok := r.Variable(v, name)
	return variable.Kind, ok
}

// Question looks up a question family.
func (r *Registry) Question(v model.Variant, family string) (Question, bool) {
	s := r.schema(v)
	idx, ok := s.families[family]
	if !ok {
		return Question{}, false
	}
	return s.questions[idx], true
}

// Lookup finds a question family in either variant, CSO first.
func (r *Registry) Lookup(family string) (Question, bool) {
	for _, v := range model.Variants() {
		if q, ok := r.Question(v, family); ok {
			return q, true
		}
	}
	return Question{}, false
}

// Families returns the family names of a variant with the given kind, in declaration order.
func (r *Registry) Families(v model.Variant, kind Kind) []string {
	var families []string
	for _, q := range r.schema(v).questions {
		if q.Kind == kind {
			families = append(families, q.Family)
		}
	}
	return families
}

// Options returns the sub-questions of a family. Across variants, options are merged
// in CSO order followed by Media-only options.
func (r *Registry) Options(family string) []Option {
	var options []Option
	seen := make(map[string]struct{})
	for _, v := range model.Variants() {
		q, ok := r.Question(v, family)
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			if _, dup := seen[opt.Name]; dup {
				continue
			}
			seen[opt.Name] = struct{}{}
			options = append(options, opt)
		}
	}
	return options
}

// Decode returns the code → label map for a variable and country.
// A country override fully replaces the base map for that country.
// Variables without answer codes return an empty map.
func (r *Registry) Decode(v model.Variant, name string, c model.Country) map[string]string {
	codes := r.codes(v, name, c)
	m := make(map[string]string, len(codes))
	for _, code := range codes {
		m[code.Code] = code.Label
	}
	return m
}

// DecodeBase returns the base code → label map of a variable, ignoring country overrides.
func (r *Registry) DecodeBase(v model.Variant, name string) map[string]string {
	q, ok := r.questionOf(v, name)
	if !ok {
		return map[string]string{}
	}
	m := make(map[string]string, len(q.Answers))
	for _, code := range q.Answers {
		m[code.Code] = code.Label
	}
	return m
}

// HasOverride reports whether a variable decodes differently in country c.
func (r *Registry) HasOverride(v model.Variant, name string, c model.Country) bool {
	q, ok := r.questionOf(v, name)
	if !ok {
		return false
	}
	_, ok = q.Overrides[c]
	return ok
}

func (r *Registry) questionOf(v model.Variant, name string) (Question, bool) {
	variable, ok := r.Variable(v, name)
	if !ok {
		return Question{}, false
	}
	return r.Question(v, variable.Family)
}

func (r *Registry) codes(v model.Variant, name string, c model.Country) []Code {
	q, ok := r.questionOf(v, name)
	if !ok {
		return nil
	}
	if override, ok := q.Overrides[c]; ok {
		return override
	}
	return q.Answers
}

// Labels returns every label a variable can decode to in any country, base order first.
func (r *Registry) Labels(v model.Variant, name string) []string {
	var labels []string
	seen := make(map[string]struct{})
	add := func(codes []Code) {
		for _, code := range codes {
			if _, dup := seen[code.Label]; dup {
				continue
			}
			seen[code.Label] = struct{}{}
			labels = append(labels, code.Label)
		}
	}
	for _, c := range model.Countries() {
		add(r.codes(v, name, c))
	}
	return labels
}

// Answers returns the ordered answer labels of a family across both variants,
// used as the category axis of stacked bars. CSO order comes first.
func (r *Registry) Answers(family string) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, v := range model.Variants() {
		q, ok := r.Question(v, family)
		if !ok {
			continue
		}
		name := q.Family
		if len(q.Options) > 0 {
			name = q.Family + "[" + q.Options[0].Name + "]"
		}
		for _, label := range r.Labels(v, name) {
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}
	return labels
}

// Title returns the question text of a family, or the family name itself.
func (r *Registry) Title(family string) string {
	if q, ok := r.Lookup(family); ok && q.Title != "" {
		return q.Title
	}
	return family
}

// FamilyOf splits a canonical variable name into its family, e.g. hr3[legal] → hr3.
func FamilyOf(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
