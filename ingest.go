package surveydash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// Ingest reads the country exports of one variant into a single table.
//
// Files are read in the fixed country order UK, DE, FR regardless of the order given.
// Columns are the union of every file's header in encounter order, so a column that
// one instance lacks reads as null for that instance's rows. Rows are concatenated
// without deduplication. Blank cells are null. When a row carries no language tag,
// it is filled from the file's country so the normaliser can still place the row.
//
// A missing or unreadable file fails the whole call.
func Ingest(ctx context.Context, variant model.Variant, files []RawFile, logger *slog.Logger) (*model.Table, error) {
	return ingest(ctx, variant, files, logger, nil)
}

// ingest is Ingest with an optional check run on every file header before its rows are taken.
func ingest(ctx context.Context, variant model.Variant, files []RawFile, logger *slog.Logger, check func(RawFile, model.Header) error) (*model.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	selected := make([]RawFile, 0, len(files))
	for _, f := range files {
		if f.Variant == variant {
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputs, variant)
	}
	sortRawFiles(selected)

	var (
		header  model.Header
		index   = make(map[string]int)
		records []model.Record
	)
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := readRawFile(f.Path)
		if err != nil {
			return nil, NewErrorContext("ingest", f.Path).
				WithTable(variant.Slug()).
				WithDetails("country " + f.Country.String()).
				Error(wrapNotFound(err))
		}
		if check != nil {
			if err := check(f, content.header); err != nil {
				return nil, err
			}
		}

		positions := make([]int, len(content.header))
		for i, col := range content.header {
			pos, ok := index[col]
			if !ok {
				pos = len(header)
				index[col] = pos
				header = append(header, col)
			}
			positions[i] = pos
		}

		for _, row := range content.rows {
			rec := make(model.Record, len(header))
			for i, cell := range row {
				rec[positions[i]] = model.Text(cell)
			}
			records = append(records, rec)
		}
		if lang, ok := index[registry.RawLanguage]; ok {
			start := len(records) - len(content.rows)
			for _, rec := range records[start:] {
				if rec[lang].IsNull() {
					rec[lang] = model.Text(f.Country.Language())
				}
			}
		}

		logger.Info("ingested raw export",
			slog.String("variant", variant.String()),
			slog.String("country", f.Country.String()),
			slog.String("path", f.Path),
			slog.Int("rows", len(content.rows)))
	}

	return model.NewTable(variant.Slug(), header, records)
}

func wrapNotFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	return err
}
