package derive

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/nao1215/surveydash/domain/model"
)

// RankScore is the aggregate of one label over a ranking family
type RankScore struct {
	Label string `json:"label"`
	// Score is the weighted sum of placements
	Score int `json:"score"`
	// First is the number of first-place placements
	First int `json:"first"`
	// Votes[k] is the number of times the label was placed at position k+1
	Votes []int `json:"votes"`
}

// RankWeights returns the weights of n rank positions: n for first place down to 1 for last.
func RankWeights(n int) []int {
	w := make([]int, n)
	for k := range w {
		w[k] = n - k
	}
	return w
}

// RankColumn returns the column of rank position k (1-based) of a family, e.g. rankinst[1]
func RankColumn(family string, k int) string {
	return family + "[" + strconv.Itoa(k) + "]"
}

// RankScores aggregates a ranking family whose position k column holds the label
// the respondent put in k-th place. Labels are scored with RankWeights and returned
// lowest first: by score ascending, then by first-place votes ascending, so that of
// two labels with equal scores the one with fewer first places ranks lower, then by
// label for a total order.
func RankScores(t *model.Table, mask []bool, family string, positions int) ([]RankScore, error) {
	rows, err := selectedRows(t, mask)
	if err != nil {
		return nil, err
	}
	columns := make([]int, positions)
	for k := range columns {
		if columns[k], err = column(t, RankColumn(family, k+1)); err != nil {
			return nil, err
		}
	}

	weights := RankWeights(positions)
	byLabel := make(map[string]*RankScore)
	for _, r := range rows {
		rec := t.Records()[r]
		for k, idx := range columns {
			label, ok := rec[idx].Str()
			if !ok {
				continue
			}
			s, ok := byLabel[label]
			if !ok {
				s = &RankScore{Label: label, Votes: make([]int, positions)}
				byLabel[label] = s
			}
			s.Votes[k]++
			s.Score += weights[k]
			if k == 0 {
				s.First++
			}
		}
	}

	scores := make([]RankScore, 0, len(byLabel))
	for _, s := range byLabel {
		scores = append(scores, *s)
	}
	slices.SortFunc(scores, func(a, b RankScore) int {
		return cmp.Or(
			cmp.Compare(a.Score, b.Score),
			cmp.Compare(a.First, b.First),
			cmp.Compare(a.Label, b.Label),
		)
	})
	return scores, nil
}
