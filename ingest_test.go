package surveydash

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/surveydash/domain/model"
)

func TestIngest(t *testing.T) {
	t.Parallel()

	t.Run("countries are read in fixed order and columns are unioned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		fr := writeRaw(t, filepath.Join(dir, "cso_fr.csv"),
			[]string{"id", "lastpage", "startlanguage", "CSfoi1", "CSextra"},
			rawRow{"id": "5", "lastpage": "4", "startlanguage": "fr", "CSfoi1": "AO01", "CSextra": "x"})
		uk := writeRaw(t, filepath.Join(dir, "cso_uk.csv"),
			[]string{"id", "lastpage", "startlanguage", "CSfoi1"},
			rawRow{"id": "1", "lastpage": "3", "startlanguage": "en", "CSfoi1": "AO02"},
			rawRow{"id": "2", "lastpage": "1", "startlanguage": "en"})
		de := writeRaw(t, filepath.Join(dir, "cso_de.csv"),
			[]string{"id", "startlanguage", "lastpage", "CSfoi2"},
			rawRow{"id": "3", "lastpage": "6", "startlanguage": "de", "CSfoi2": "7"})

		files := []RawFile{
			{Path: fr, Variant: model.VariantCSO, Country: model.CountryFR},
			{Path: de, Variant: model.VariantCSO, Country: model.CountryDE},
			{Path: uk, Variant: model.VariantCSO, Country: model.CountryUK},
		}
		got, err := Ingest(context.Background(), model.VariantCSO, files, discardLogger())
		require.NoError(t, err)

		assert.Equal(t, "cso", got.Name())
		assert.Equal(t, model.Header{"id", "lastpage", "startlanguage", "CSfoi1", "CSfoi2", "CSextra"}, got.Header())
		require.Equal(t, 4, got.Len())

		ids := make([]string, 0, got.Len())
		for r := range got.Len() {
			ids = append(ids, got.Cell(r, "id").String())
		}
		assert.Equal(t, []string{"1", "2", "3", "5"}, ids)

		assert.True(t, got.Cell(1, "CSfoi1").IsNull(), "blank cell is null")
		assert.True(t, got.Cell(0, "CSfoi2").IsNull(), "column absent from the UK export is null")
		assert.Equal(t, model.Text("7"), got.Cell(2, "CSfoi2"))
		assert.Equal(t, model.Text("x"), got.Cell(3, "CSextra"))
	})

	t.Run("byte-order mark is stripped from the first column", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeRaw(t, filepath.Join(dir, "media_uk.csv"),
			[]string{"id", "lastpage", "startlanguage"},
			rawRow{"id": "1", "lastpage": "3", "startlanguage": "en"})

		got, err := Ingest(context.Background(), model.VariantMedia,
			[]RawFile{{Path: path, Variant: model.VariantMedia, Country: model.CountryUK}}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, "id", got.Header()[0])
	})

	t.Run("missing language tag is filled from the file's country", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeRaw(t, filepath.Join(dir, "media_de.csv"),
			[]string{"id", "lastpage", "startlanguage"},
			rawRow{"id": "1", "lastpage": "3"})

		got, err := Ingest(context.Background(), model.VariantMedia,
			[]RawFile{{Path: path, Variant: model.VariantMedia, Country: model.CountryDE}}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, model.Text("de"), got.Cell(0, "startlanguage"))
	})

	t.Run("compressed export is read transparently", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := encodeRaw(t, []string{"id", "lastpage", "startlanguage"},
			rawRow{"id": "9", "lastpage": "3", "startlanguage": "fr"})

		var buf bytes.Buffer
		w, closeWriter, err := NewCompressionHandler(CompressionZSTD).CreateWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, closeWriter())

		path := filepath.Join(dir, "cso_fr.csv.zst")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

		got, err := Ingest(context.Background(), model.VariantCSO,
			[]RawFile{{Path: path, Variant: model.VariantCSO, Country: model.CountryFR}}, discardLogger())
		require.NoError(t, err)
		require.Equal(t, 1, got.Len())
		assert.Equal(t, model.Text("9"), got.Cell(0, "id"))
	})

	t.Run("files of the other variant are ignored", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeRaw(t, filepath.Join(dir, "media_uk.csv"), []string{"id"}, rawRow{"id": "1"})

		_, err := Ingest(context.Background(), model.VariantCSO,
			[]RawFile{{Path: path, Variant: model.VariantMedia, Country: model.CountryUK}}, discardLogger())
		assert.ErrorIs(t, err, ErrNoInputs)
	})
}

func TestIngest_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	duplicate := writeRaw(t, filepath.Join(dir, "cso_uk.csv"), []string{"id", "CSfoi1", "CSfoi1"})
	empty := filepath.Join(dir, "cso_de.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	tests := []struct {
		name string
		file RawFile
		want error
	}{
		{
			name: "missing file",
			file: RawFile{Path: filepath.Join(dir, "cso_fr.csv"), Variant: model.VariantCSO, Country: model.CountryFR},
			want: ErrFileNotFound,
		},
		{
			name: "duplicate column",
			file: RawFile{Path: duplicate, Variant: model.VariantCSO, Country: model.CountryUK},
			want: ErrDuplicateColumnName,
		},
		{
			name: "empty file",
			file: RawFile{Path: empty, Variant: model.VariantCSO, Country: model.CountryDE},
			want: ErrEmptyData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Ingest(context.Background(), model.VariantCSO, []RawFile{tt.file}, discardLogger())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "table: cso, details: country "+tt.file.Country.String())
		})
	}
}

func TestIngest_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeRaw(t, filepath.Join(dir, "cso_uk.csv"), []string{"id"}, rawRow{"id": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ingest(ctx, model.VariantCSO,
		[]RawFile{{Path: path, Variant: model.VariantCSO, Country: model.CountryUK}}, discardLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
