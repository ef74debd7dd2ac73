package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankHeader() []string {
	return []string{"rankinst[1]", "rankinst[2]", "rankinst[3]", "rankinst[4]", "rankinst[5]", "rankinst[6]"}
}

func TestRankScores_WeightedSum(t *testing.T) {
	t.Parallel()

	// X is ranked first, second, first; Y first, first, third.
	// Rows list each respondent's placements; the other positions are left blank.
	table := newTestTable(t, rankHeader(),
		[]string{"X", "", "", "", "", ""},
		[]string{"Y", "X", "", "", "", ""},
		[]string{"X", "", "", "", "", ""},
		[]string{"Y", "", "", "", "", ""},
		[]string{"", "", "Y", "", "", ""},
	)

	got, err := RankScores(table, nil, "rankinst", 6)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// lowest first: Y (6+6+4=16) precedes X (6+5+6=17)
	assert.Equal(t, "Y", got[0].Label)
	assert.Equal(t, 16, got[0].Score)
	assert.Equal(t, 2, got[0].First)
	assert.Equal(t, "X", got[1].Label)
	assert.Equal(t, 17, got[1].Score)
	assert.Equal(t, 2, got[1].First)
	assert.Equal(t, []int{2, 1, 0, 0, 0, 0}, got[1].Votes)
}

func TestRankScores_TieBrokenByFirstPlaces(t *testing.T) {
	t.Parallel()

	// A: first + last = 6 + 1 = 7 with one first place.
	// B: second + fifth = 5 + 2 = 7 with no first place, so B ranks lower.
	table := newTestTable(t, rankHeader(),
		[]string{"A", "B", "", "", "", ""},
		[]string{"", "", "", "", "B", "A"},
	)

	got, err := RankScores(table, nil, "rankinst", 6)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Score, got[1].Score)
	assert.Equal(t, []string{"B", "A"}, []string{got[0].Label, got[1].Label})
}

func TestRankScores_Deterministic(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, rankHeader(),
		[]string{"C", "B", "A", "D", "E", "F"},
		[]string{"B", "C", "A", "F", "E", "D"},
		[]string{"A", "D", "C", "B", "F", "E"},
	)

	first, err := RankScores(table, nil, "rankinst", 6)
	require.NoError(t, err)
	for range 10 {
		again, err := RankScores(table, nil, "rankinst", 6)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRankScores_MissingPosition(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, []string{"rankinst[1]"}, []string{"A"})
	_, err := RankScores(table, nil, "rankinst", 6)
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestRankWeights(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{6, 5, 4, 3, 2, 1}, RankWeights(6))
	assert.Empty(t, RankWeights(0))
}
