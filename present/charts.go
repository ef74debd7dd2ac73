package present

import (
	"fmt"

	"github.com/nao1215/surveydash/derive"
	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// Bars is a value-count chart of one variable
type Bars struct {
	Title    string         `json:"title"`
	Variable string         `json:"variable"`
	Total    int            `json:"total"`
	Bars     []derive.Count `json:"bars"`
}

// BarChart counts the values of one variable over the masked rows, most frequent first.
// Total is the number of masked rows, answered or not.
func BarChart(reg *registry.Registry, t *model.Table, mask Mask, variable string) (*Bars, error) {
	counts, err := derive.ValueCounts(t, mask, variable)
	if err != nil {
		return nil, err
	}
	return &Bars{
		Title:    variableTitle(reg, variable),
		Variable: variable,
		Total:    selected(t, mask),
		Bars:     counts,
	}, nil
}

// StackedBars is a Likert matrix chart. Counts[a][o] is the number of respondents who
// gave answer Answers[a] to sub-question Options[o].
type StackedBars struct {
	Title   string   `json:"title"`
	Family  string   `json:"family"`
	Answers []string `json:"answers"`
	Options []string `json:"options"`
	Counts  [][]int  `json:"counts"`
}

// StackedBarChart counts a matrix family with answers and sub-questions in registry
// order. Options are reported by display label.
func StackedBarChart(reg *registry.Registry, t *model.Table, mask Mask, family string) (*StackedBars, error) {
	options, labels, err := familyOptions(reg, family)
	if err != nil {
		return nil, err
	}
	bar, err := derive.NewStackedBar(t, mask, family, options, reg.Answers(family))
	if err != nil {
		return nil, err
	}
	return &StackedBars{
		Title:   reg.Title(family),
		Family:  family,
		Answers: bar.Answers,
		Options: labels,
		Counts:  bar.Counts,
	}, nil
}

// Histogram is a multi-select chart grouped by country
type Histogram struct {
	Title  string                `json:"title"`
	Family string                `json:"family"`
	Rows   []derive.HistogramRow `json:"rows"`
}

// CountryHistogramChart counts the ticked options of a multi-select family per country.
// Every option appears once per country, in registry order, by display label.
func CountryHistogramChart(reg *registry.Registry, t *model.Table, mask Mask, family string) (*Histogram, error) {
	options, labels, err := familyOptions(reg, family)
	if err != nil {
		return nil, err
	}
	rows, err := derive.CountryHistogram(t, mask, family, options)
	if err != nil {
		return nil, err
	}
	display := make(map[string]string, len(options))
	for i, opt := range options {
		display[opt] = labels[i]
	}
	for i := range rows {
		rows[i].Option = display[rows[i].Option]
	}
	return &Histogram{Title: reg.Title(family), Family: family, Rows: rows}, nil
}

// Ranking is a rank-scoring chart. Scores run from the lowest to the highest
// ranked label, so a horizontal bar chart drawn bottom-up puts the winner on top.
type Ranking struct {
	Title   string             `json:"title"`
	Family  string             `json:"family"`
	Weights []int              `json:"weights"`
	Scores  []derive.RankScore `json:"scores"`
}

// RankChart scores a ranking family over the masked rows
func RankChart(reg *registry.Registry, t *model.Table, mask Mask, family string) (*Ranking, error) {
	q, ok := reg.Lookup(family)
	if !ok || q.Kind != registry.KindRank {
		return nil, fmt.Errorf("%w: %s is not a ranking", ErrUnknownFamily, family)
	}
	scores, err := derive.RankScores(t, mask, family, q.Positions)
	if err != nil {
		return nil, err
	}
	return &Ranking{
		Title:   reg.Title(family),
		Family:  family,
		Weights: derive.RankWeights(q.Positions),
		Scores:  scores,
	}, nil
}

// CrossTable is a categorical variable counted by country
type CrossTable struct {
	Title string `json:"title"`
	*derive.CrossTab
}

// CrossTabChart counts a categorical variable by country
func CrossTabChart(reg *registry.Registry, t *model.Table, mask Mask, variable string) (*CrossTable, error) {
	tab, err := derive.NewCrossTab(t, mask, variable)
	if err != nil {
		return nil, err
	}
	return &CrossTable{Title: variableTitle(reg, variable), CrossTab: tab}, nil
}

// familyOptions returns the canonical option names of a family and their display labels
func familyOptions(reg *registry.Registry, family string) ([]string, []string, error) {
	opts := reg.Options(family)
	if len(opts) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no sub-questions", ErrUnknownFamily, family)
	}
	names := make([]string, len(opts))
	labels := make([]string, len(opts))
	for i, opt := range opts {
		names[i] = opt.Name
		labels[i] = opt.Label
	}
	return names, labels, nil
}

// variableTitle is the family title, followed by the option label for sub-questions.
func variableTitle(reg *registry.Registry, variable string) string {
	family := registry.FamilyOf(variable)
	title := reg.Title(family)
	if family == variable {
		return title
	}
	for _, opt := range reg.Options(family) {
		if derive.OptionColumn(family, opt.Name) == variable {
			return title + ": " + opt.Label
		}
	}
	return title
}

func selected(t *model.Table, mask Mask) int {
	if mask == nil {
		return t.Len()
	}
	return mask.Count()
}
