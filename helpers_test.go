package surveydash

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// rawRow is one exported response keyed by raw column name. Absent columns are blank.
type rawRow map[string]string

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rawHeader returns every projected column of a variant spelled the way the
// questionnaire platform exports it.
func rawHeader(v model.Variant) []string {
	reg := registry.Default()
	var header []string
	for _, variable := range reg.Variables(v) {
		if variable.Kind == registry.KindMeta {
			switch variable.Name {
			case registry.ColumnLastPage:
				header = append(header, registry.RawLastPage)
			case registry.ColumnCountry:
				header = append(header, registry.RawLanguage)
			default:
				header = append(header, variable.Name)
			}
			continue
		}

		q, _ := reg.Question(v, variable.Family)
		family := q.Family
		if q.Raw != "" {
			family = q.Raw
		}
		name := v.Prefix() + family
		switch {
		case variable.Option != nil:
			name += "[" + variable.Option.Code + "]"
		case variable.Kind == registry.KindRank:
			name += "[" + strconv.Itoa(variable.Position) + "]"
		}
		header = append(header, name)
	}
	return header
}

// encodeRaw renders an export the way the platform does: BOM, semicolons, header row.
func encodeRaw(t *testing.T, header []string, rows ...rawRow) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	w.Comma = rawDelimiter
	require.NoError(t, w.Write(header))
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = row[col]
		}
		require.NoError(t, w.Write(rec))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.Bytes()
}

func writeRaw(t *testing.T, path string, header []string, rows ...rawRow) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, encodeRaw(t, header, rows...), 0o600))
	return path
}

// writeExport writes the full raw export of one instance into dir.
func writeExport(t *testing.T, dir string, v model.Variant, c model.Country, rows ...rawRow) string {
	t.Helper()
	return writeRaw(t, filepath.Join(dir, RawFileName(v, c)), rawHeader(v), rows...)
}

// respondent starts a complete response of the given instance.
func respondent(c model.Country, id int, cells ...string) rawRow {
	row := rawRow{
		registry.ColumnID:    strconv.Itoa(id),
		registry.RawLastPage: "5",
		registry.RawLanguage: c.Language(),
	}
	for i := 0; i+1 < len(cells); i += 2 {
		row[cells[i]] = cells[i+1]
	}
	return row
}

// writeSurveyFixture writes all six exports into dir:
//
//	cso_uk:   id 1 complete, id 2 stopped on page 1
//	cso_de:   id 3 complete
//	cso_fr:   id 4 complete
//	media_uk: id 1 complete
//	media_de: id 2 complete
//	media_fr: id 3 stopped on page 2, id 4 complete
func writeSurveyFixture(t *testing.T, dir string) {
	t.Helper()

	writeExport(t, dir, model.VariantCSO, model.CountryUK,
		respondent(model.CountryUK, 1,
			"CSfoi4", "AO03",
			"CShr2", "0,5",
			"CShr1", "AO02",
			"CSprotectops3[SQ02]", "Y",
			"CSprotectops3[SQ03]", "",
			"CSprotectops1[SQ02]", "AO01",
			"CSrankinst[1]", "Parliament",
			"CSrankinst[2]", "Courts",
			"CSfoi6", "Requests take too long",
		),
		respondent(model.CountryUK, 2,
			registry.RawLastPage, "1",
			"CSfoi4", "AO01",
		),
	)
	writeExport(t, dir, model.VariantCSO, model.CountryDE,
		respondent(model.CountryDE, 3,
			"CSfoi4", "AO03",
			"CShr2", "3",
			"CShr1", "AO01",
			"CSprotectops3[SQ03]", "Y",
			"CSrankinst[1]", "Courts",
		),
	)
	writeExport(t, dir, model.VariantCSO, model.CountryFR,
		respondent(model.CountryFR, 4,
			"CSfoi4", "AO07",
			"CSfield", "AO07",
			"CShr2", "20+",
			"CShr1", "AO02",
		),
	)
	writeExport(t, dir, model.VariantMedia, model.CountryUK,
		respondent(model.CountryUK, 1,
			"MSfoi4", "AO02",
			"MSconstraintcen3", "10 fois.",
			"MSmediatype", "AO04",
			"MSprotectops3[SQ02]", "Y",
		),
	)
	writeExport(t, dir, model.VariantMedia, model.CountryDE,
		respondent(model.CountryDE, 2,
			"MSfoi4", "AO01",
			"MSconstraintcen3", "every time you publish a story about it",
			"MSmediatype", "AO04",
		),
	)
	writeExport(t, dir, model.VariantMedia, model.CountryFR,
		respondent(model.CountryFR, 3,
			registry.RawLastPage, "2",
		),
		respondent(model.CountryFR, 4,
			"MSfoi4", "AO99",
			"MSconstraintcen3", "3",
		),
	)
}

// newTable builds a table from string cells; "" is null.
func newTable(t *testing.T, name string, header []string, rows ...[]string) *model.Table {
	t.Helper()

	records := make([]model.Record, len(rows))
	for r, row := range rows {
		rec := make(model.Record, len(row))
		for i, cell := range row {
			rec[i] = model.Text(cell)
		}
		records[r] = rec
	}
	table, err := model.NewTable(name, model.NewHeader(header), records)
	require.NoError(t, err)
	return table
}

// cell returns the value of column col in the first row whose id equals id.
func cell(t *testing.T, table *model.Table, id float64, col string) model.Value {
	t.Helper()

	for r := range table.Len() {
		if got, ok := table.Cell(r, registry.ColumnID).Float(); ok && got == id {
			return table.Cell(r, col)
		}
	}
	require.Failf(t, "row not found", "id %v in %s", id, table.Name())
	return model.Null()
}
