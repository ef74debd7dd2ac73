package derive

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// Count is one bar of a value-count chart
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ValueCounts counts the non-null values of a column over the selected rows,
// ordered by descending count, ties broken by label.
func ValueCounts(t *model.Table, mask []bool, name string) ([]Count, error) {
	rows, err := selectedRows(t, mask)
	if err != nil {
		return nil, err
	}
	idx, err := column(t, name)
	if err != nil {
		return nil, err
	}

	tally := make(map[string]int)
	for _, r := range rows {
		v := t.Records()[r][idx]
		if v.IsNull() {
			continue
		}
		tally[v.String()]++
	}

	counts := make([]Count, 0, len(tally))
	for label, n := range tally {
		counts = append(counts, Count{Label: label, Count: n})
	}
	slices.SortFunc(counts, func(a, b Count) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Label, b.Label))
	})
	return counts, nil
}

// StackedBar is an answers × options count matrix. Counts[a][o] is the number of
// selected rows whose option o column equals answer a.
type StackedBar struct {
	Answers []string `json:"answers"`
	Options []string `json:"options"`
	Counts  [][]int  `json:"counts"`
}

// NewStackedBar counts a Likert-style matrix question. Every (answer, option) cell is
// present, zero when nothing matches. Option columns absent from the table count zero.
func NewStackedBar(t *model.Table, mask []bool, family string, options, answers []string) (*StackedBar, error) {
	rows, err := selectedRows(t, mask)
	if err != nil {
		return nil, err
	}

	answerIdx := make(map[string]int, len(answers))
	for i, a := range answers {
		answerIdx[a] = i
	}
	counts := make([][]int, len(answers))
	for i := range counts {
		counts[i] = make([]int, len(options))
	}

	for o, opt := range options {
		idx := t.ColumnIndex(OptionColumn(family, opt))
		if idx < 0 {
			continue
		}
		for _, r := range rows {
			s, ok := t.Records()[r][idx].Str()
			if !ok {
				continue
			}
			if a, ok := answerIdx[s]; ok {
				counts[a][o]++
			}
		}
	}
	return &StackedBar{
		Answers: slices.Clone(answers),
		Options: slices.Clone(options),
		Counts:  counts,
	}, nil
}

// HistogramRow is one (option, country) bar of a per-country histogram
type HistogramRow struct {
	Option  string `json:"option"`
	Count   int    `json:"count"`
	Country string `json:"country"`
}

// CountryHistogram counts true cells of a multi-select family per option and country.
// Rows cover every option in the given order crossed with UK, DE, FR, zero counts
// included, so no (option, country) pair repeats or goes missing.
func CountryHistogram(t *model.Table, mask []bool, family string, options []string) ([]HistogramRow, error) {
	rows, err := selectedRows(t, mask)
	if err != nil {
		return nil, err
	}
	countries := model.Countries()
	countryIdx := t.ColumnIndex(registry.ColumnCountry)

	histogram := make([]HistogramRow, 0, len(options)*len(countries))
	for _, opt := range options {
		tally := make(map[model.Country]int, len(countries))
		if idx := t.ColumnIndex(OptionColumn(family, opt)); idx >= 0 && countryIdx >= 0 {
			for _, r := range rows {
				rec := t.Records()[r]
				v := rec[idx]
				flag, ok := v.Boolean()
				if !ok {
					if v.IsNull() {
						continue
					}
					return nil, errNotMulti(OptionColumn(family, opt))
				}
				if !flag {
					continue
				}
				name, _ := rec[countryIdx].Str()
				if c, ok := model.CountryFromName(name); ok {
					tally[c]++
				}
			}
		}
		for _, c := range countries {
			histogram = append(histogram, HistogramRow{Option: opt, Count: tally[c], Country: c.Name()})
		}
	}
	return histogram, nil
}

// CrossTab is a labels × countries count matrix of one categorical variable
type CrossTab struct {
	Variable  string   `json:"variable"`
	Labels    []string `json:"labels"`
	Countries []string `json:"countries"`
	Counts    [][]int  `json:"counts"`
}

// NewCrossTab counts a categorical variable by country. Labels are ordered by
// descending total, ties by label; countries are UK, DE, FR.
func NewCrossTab(t *model.Table, mask []bool, name string) (*CrossTab, error) {
	totals, err := ValueCounts(t, mask, name)
	if err != nil {
		return nil, err
	}
	rows, err := selectedRows(t, mask)
	if err != nil {
		return nil, err
	}
	idx, err := column(t, name)
	if err != nil {
		return nil, err
	}
	countryIdx := t.ColumnIndex(registry.ColumnCountry)

	labels := make([]string, len(totals))
	labelIdx := make(map[string]int, len(totals))
	for i, c := range totals {
		labels[i] = c.Label
		labelIdx[c.Label] = i
	}
	countries := model.Countries()
	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = c.Name()
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(countries))
	}
	if countryIdx >= 0 {
		for _, r := range rows {
			rec := t.Records()[r]
			if rec[idx].IsNull() {
				continue
			}
			country, _ := rec[countryIdx].Str()
			c, ok := model.CountryFromName(country)
			if !ok {
				continue
			}
			counts[labelIdx[rec[idx].String()]][c]++
		}
	}
	return &CrossTab{Variable: name, Labels: labels, Countries: names, Counts: counts}, nil
}

func errNotMulti(name string) error {
	return fmt.Errorf("%w: %s", ErrNotMultiOption, name)
}
