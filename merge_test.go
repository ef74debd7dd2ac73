package surveydash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	cso := newTable(t, "cso", []string{"id", "country", "hr2", "foi4", "survey_type"},
		[]string{"1", "Germany", "3", "Refused", "CSO"},
		[]string{"2", "France", "", "", "CSO"},
	)
	media := newTable(t, "media", []string{"id", "country", "mediatype", "foi4", "role", "survey_type"},
		[]string{"7", "United Kingdom", "Freelance", "Helpful in parts", "Editor", "Media"},
	)

	got, err := Merge(cso, media)
	require.NoError(t, err)

	assert.Equal(t, SurveyTableName, got.Name())
	assert.Equal(t, model.Header{"id", "country", "hr2", "foi4", "survey_type", "mediatype", "role"}, got.Header())
	require.Equal(t, 3, got.Len())

	assert.Equal(t, model.Text("CSO"), got.Cell(0, "survey_type"))
	assert.Equal(t, model.Text("CSO"), got.Cell(1, "survey_type"))
	assert.Equal(t, model.Text("Media"), got.Cell(2, "survey_type"))

	assert.True(t, got.Cell(0, "mediatype").IsNull(), "media-only column is null for CSO rows")
	assert.True(t, got.Cell(2, "hr2").IsNull(), "CSO-only column is null for Media rows")
	assert.Equal(t, model.Text("Helpful in parts"), got.Cell(2, "foi4"))
	assert.Equal(t, model.Text("Editor"), got.Cell(2, "role"))
}

func TestMerge_ColumnClosure(t *testing.T) {
	t.Parallel()

	cso := decoded(t, model.VariantCSO, respondent(model.CountryUK, 1))
	media := decoded(t, model.VariantMedia, respondent(model.CountryFR, 1))
	got, err := Merge(cso, media)
	require.NoError(t, err)

	reg := registry.Default()
	want := make(map[string]struct{})
	for _, v := range model.Variants() {
		for _, col := range reg.Columns(v) {
			want[col] = struct{}{}
		}
	}
	want[registry.ColumnSurveyType] = struct{}{}

	have := make(map[string]struct{}, len(got.Header()))
	for _, col := range got.Header() {
		have[col] = struct{}{}
	}
	assert.Equal(t, want, have)
	assert.Len(t, got.Header(), len(want), "no column appears twice")
	assert.Equal(t, 2, got.Len())
}
