package surveydash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/surveydash/domain/model"
)

// Snapshot table names
const (
	SnapshotSurvey       = SurveyTableName
	SnapshotCSO          = "survey_cso"
	SnapshotMedia        = "survey_media"
	SnapshotCorrelation  = "survey_corr"
	SnapshotSignificance = "survey_sig"
)

// SnapshotStore writes tables as snapshot artifacts into one directory.
// File names are <table name><extension> and stable across runs.
type SnapshotStore struct {
	dir     string
	options SnapshotOptions
	logger  *slog.Logger
}

// NewSnapshotStore creates a store rooted at dir. Without options all three forms are written.
func NewSnapshotStore(dir string, opts ...SnapshotOptions) *SnapshotStore {
	options := NewSnapshotOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	return &SnapshotStore{dir: dir, options: options, logger: slog.Default()}
}

// WithLogger sets the logger used to report written artifacts
func (s *SnapshotStore) WithLogger(logger *slog.Logger) *SnapshotStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Dir returns the snapshot directory
func (s *SnapshotStore) Dir() string {
	return s.dir
}

// Path returns the artifact path of a table in the given format
func (s *SnapshotStore) Path(name string, format SnapshotFormat) string {
	return filepath.Join(s.dir, name+s.options.FileExtension(format))
}

// Write persists t in every configured format and returns the written paths.
// It is WriteAll for a single table.
func (s *SnapshotStore) Write(ctx context.Context, t *model.Table) ([]string, error) {
	return s.WriteAll(ctx, t)
}

// WriteAll persists every table in every configured format and returns the written
// paths. All artifacts are first written to temporary files; only when every one of
// them succeeded are they renamed into place. A failure at any point leaves the
// previous snapshots on disk as they were.
func (s *SnapshotStore) WriteAll(ctx context.Context, tables ...*model.Table) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, NewErrorContext("snapshot", s.dir).Error(err)
	}

	var staged []stagedFile
	discard := func() {
		for _, f := range staged {
			_ = os.Remove(f.tmp)
		}
	}
	for _, t := range tables {
		for _, format := range s.options.Formats {
			if err := ctx.Err(); err != nil {
				discard()
				return nil, err
			}
			path := s.Path(t.Name(), format)
			tmp, err := stageFile(path, s.writerFor(t, format))
			if err != nil {
				discard()
				return nil, NewErrorContext("snapshot", path).
					WithTable(t.Name()).
					WithDetails("format " + format.String()).
					Error(err)
			}
			staged = append(staged, stagedFile{tmp: tmp, path: path, table: t, format: format})
		}
	}

	if err := commitFiles(staged); err != nil {
		return nil, NewErrorContext("snapshot", s.dir).Error(err)
	}

	paths := make([]string, len(staged))
	for i, f := range staged {
		paths[i] = f.path
		s.logger.Info("wrote snapshot",
			slog.String("table", f.table.Name()),
			slog.String("format", f.format.String()),
			slog.String("path", f.path),
			slog.Int("rows", f.table.Len()))
	}
	return paths, nil
}

func (s *SnapshotStore) writerFor(t *model.Table, format SnapshotFormat) func(io.Writer) error {
	switch format {
	case FormatParquet:
		return func(w io.Writer) error { return writeParquet(w, t) }
	case FormatXLSX:
		return func(w io.Writer) error { return writeXLSX(w, t) }
	case FormatCSV:
		return func(w io.Writer) error { return writeCSV(w, t, s.options.Compression) }
	default:
		return func(io.Writer) error {
			return fmt.Errorf("%w: snapshot format %d", ErrUnsupportedFormat, format)
		}
	}
}

// Load reads a table back from the first configured format present on disk.
func (s *SnapshotStore) Load(ctx context.Context, name string) (*model.Table, error) {
	for _, format := range s.options.Formats {
		path := s.Path(name, format)
		if _, err := os.Stat(path); err == nil {
			return LoadSnapshot(ctx, path)
		}
	}
	return nil, fmt.Errorf("%w: snapshot %s in %s", ErrFileNotFound, name, s.dir)
}

// stagedFile is an artifact written to a temporary file and not yet renamed into place
type stagedFile struct {
	tmp    string
	path   string
	table  *model.Table
	format SnapshotFormat
}

// stageFile writes to a temporary file next to path and returns its name.
// The writer only sees an io.Writer, so encoders that close their sink on Close
// cannot close the file before it is synced.
func stageFile(path string, write func(io.Writer) error) (_ string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(struct{ io.Writer }{tmp}); err != nil {
		return "", err
	}
	if err = tmp.Sync(); err != nil {
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // snapshots are shared read-only artifacts
		return "", err
	}
	return tmp.Name(), nil
}

// commitFiles renames staged files into place. The previous version of each target
// is kept as a hard link (or copy) until every rename succeeded; when one fails,
// the targets already replaced are restored and the remaining temporary files removed.
func commitFiles(files []stagedFile) error {
	type replaced struct {
		path   string
		backup string
	}
	var done []replaced
	var backups []string
	rollback := func(from int) {
		for i := len(done) - 1; i >= 0; i-- {
			if done[i].backup != "" {
				_ = os.Rename(done[i].backup, done[i].path)
			} else {
				_ = os.Remove(done[i].path)
			}
		}
		for _, b := range backups {
			_ = os.Remove(b)
		}
		for _, f := range files[from:] {
			_ = os.Remove(f.tmp)
		}
	}

	for i, f := range files {
		backup, err := backupTarget(f.path, f.tmp+".prev")
		if err != nil {
			rollback(i)
			return err
		}
		if backup != "" {
			backups = append(backups, backup)
		}
		if err := os.Rename(f.tmp, f.path); err != nil {
			rollback(i)
			return err
		}
		done = append(done, replaced{path: f.path, backup: backup})
	}
	for _, b := range backups {
		_ = os.Remove(b)
	}
	return nil
}

// backupTarget preserves the current content of path under backup and returns
// backup, or "" when path does not exist yet.
func backupTarget(path, backup string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrInvalidData, path)
	}
	if err := os.Link(path, backup); err == nil {
		return backup, nil
	}
	if err := copyFile(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // snapshot paths are built by the store
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // see stageFile
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// writeAtomic writes to a temporary file next to path and renames it into place.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := stageFile(path, write)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// WriteFileAtomic replaces path with data via a temporary file in the same directory.
func WriteFileAtomic(path string, data []byte) error {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
