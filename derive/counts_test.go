package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/surveydash/domain/model"
)

func TestValueCounts(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, []string{"country", "foi1"},
		[]string{"United Kingdom", "Yes"},
		[]string{"Germany", "No"},
		[]string{"France", "Yes"},
		[]string{"France", ""},
		[]string{"Germany", "I don't know"},
		[]string{"Germany", "No"},
	)

	t.Run("descending count, ties by label", func(t *testing.T) {
		t.Parallel()
		got, err := ValueCounts(table, nil, "foi1")
		require.NoError(t, err)
		assert.Equal(t, []Count{{"No", 2}, {"Yes", 2}, {"I don't know", 1}}, got)
	})

	t.Run("mask selects rows", func(t *testing.T) {
		t.Parallel()
		got, err := ValueCounts(table, []bool{true, false, true, true, false, false}, "foi1")
		require.NoError(t, err)
		assert.Equal(t, []Count{{"Yes", 2}}, got)
	})

	t.Run("mask length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := ValueCounts(table, []bool{true}, "foi1")
		assert.ErrorIs(t, err, model.ErrMaskLength)
	})

	t.Run("unknown variable", func(t *testing.T) {
		t.Parallel()
		_, err := ValueCounts(table, nil, "foi9")
		assert.ErrorIs(t, err, ErrUnknownVariable)
	})
}

func TestNewStackedBar_Dense(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, []string{"protectops1[encryption]", "protectops1[legaladvice]"},
		[]string{"Always", "Never"},
		[]string{"Always", ""},
		[]string{"Sometimes", "Never"},
	)
	answers := []string{"Always", "Often", "Sometimes", "Never"}
	options := []string{"encryption", "legaladvice", "threatmodel"}

	got, err := NewStackedBar(table, nil, "protectops1", options, answers)
	require.NoError(t, err)
	assert.Equal(t, answers, got.Answers)
	assert.Equal(t, options, got.Options)
	assert.Equal(t, [][]int{
		{2, 0, 0},
		{0, 0, 0},
		{1, 0, 0},
		{0, 2, 0},
	}, got.Counts)
}

func TestCountryHistogram(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, []string{"country", "hr3[legal]", "hr3[tech]"},
		[]string{"United Kingdom", "#t", "#f"},
		[]string{"Germany", "#t", "#t"},
		[]string{"Germany", "#t", "#f"},
		[]string{"France", "#f", "#f"},
	)

	got, err := CountryHistogram(table, nil, "hr3", []string{"legal", "tech"})
	require.NoError(t, err)
	assert.Equal(t, []HistogramRow{
		{Option: "legal", Count: 1, Country: "United Kingdom"},
		{Option: "legal", Count: 2, Country: "Germany"},
		{Option: "legal", Count: 0, Country: "France"},
		{Option: "tech", Count: 0, Country: "United Kingdom"},
		{Option: "tech", Count: 1, Country: "Germany"},
		{Option: "tech", Count: 0, Country: "France"},
	}, got)

	seen := make(map[[2]string]bool)
	for _, row := range got {
		key := [2]string{row.Option, row.Country}
		assert.False(t, seen[key], "duplicate %v", key)
		seen[key] = true
	}
}

func TestCountryHistogram_RejectsText(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, []string{"country", "hr3[legal]"},
		[]string{"United Kingdom", "Y"},
	)
	_, err := CountryHistogram(table, nil, "hr3", []string{"legal"})
	assert.ErrorIs(t, err, ErrNotMultiOption)
}

func TestNewCrossTab(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, []string{"country", "foi1"},
		[]string{"United Kingdom", "Yes"},
		[]string{"Germany", "No"},
		[]string{"France", "Yes"},
		[]string{"Germany", "Yes"},
	)

	got, err := NewCrossTab(table, nil, "foi1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes", "No"}, got.Labels)
	assert.Equal(t, []string{"United Kingdom", "Germany", "France"}, got.Countries)
	assert.Equal(t, [][]int{{1, 1, 1}, {0, 1, 0}}, got.Counts)
}
