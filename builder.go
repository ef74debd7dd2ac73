package surveydash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/surveydash/derive"
	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/registry"
)

// PipelineBuilder configures a harmonisation run over raw survey exports.
// Use NewPipeline to create a new instance, then chain method calls to configure it.
//
// The typical usage pattern is:
//
//	pipeline, err := surveydash.NewPipeline().
//		AddPath("data/raw").
//		WithOutputDir("data/snapshots").
//		Build(ctx)
//	if err != nil {
//		return err
//	}
//	result, err := pipeline.Run(ctx)
type PipelineBuilder struct {
	// paths contains raw export files and directories holding them
	paths []string
	// outputDir is the snapshot directory
	outputDir string
	// options selects snapshot formats and compression
	options SnapshotOptions
	// registry is the instrument registry, registry.Default() when nil
	registry *registry.Registry
	// logger receives stage progress
	logger *slog.Logger
	// matrices enables the association matrices
	matrices bool
	// association tunes the association matrices
	association derive.AssociationOptions
}

// NewPipeline creates a pipeline builder. By default snapshots are written in every
// format to the current directory and association matrices are computed.
func NewPipeline() *PipelineBuilder {
	return &PipelineBuilder{
		paths:     make([]string, 0),
		outputDir: ".",
		options:   NewSnapshotOptions(),
		matrices:  true,
	}
}

// AddPath adds a raw export file or a directory holding raw exports.
// Files must be named <variant>_<country>.csv, optionally compressed
// (.gz, .bz2, .xz, .zst). Directories are scanned without recursion.
//
// Returns the builder for method chaining.
func (b *PipelineBuilder) AddPath(path string) *PipelineBuilder {
	b.paths = append(b.paths, path)
	return b
}

// AddPaths adds multiple files or directories, following the same rules as AddPath.
//
// Returns the builder for method chaining.
func (b *PipelineBuilder) AddPaths(paths ...string) *PipelineBuilder {
	b.paths = append(b.paths, paths...)
	return b
}

// WithOutputDir sets the snapshot directory. It is created when missing.
func (b *PipelineBuilder) WithOutputDir(dir string) *PipelineBuilder {
	b.outputDir = dir
	return b
}

// WithSnapshotOptions sets the snapshot formats and compression
func (b *PipelineBuilder) WithSnapshotOptions(options SnapshotOptions) *PipelineBuilder {
	b.options = options
	return b
}

// WithRegistry replaces the built-in instrument registry
func (b *PipelineBuilder) WithRegistry(reg *registry.Registry) *PipelineBuilder {
	b.registry = reg
	return b
}

// WithLogger sets the logger for stage progress
func (b *PipelineBuilder) WithLogger(logger *slog.Logger) *PipelineBuilder {
	b.logger = logger
	return b
}

// WithMatrices enables or disables the association matrices
func (b *PipelineBuilder) WithMatrices(enabled bool) *PipelineBuilder {
	b.matrices = enabled
	return b
}

// WithAssociationOptions tunes the association matrices. The interval columns are
// always taken from the registry.
func (b *PipelineBuilder) WithAssociationOptions(opts derive.AssociationOptions) *PipelineBuilder {
	b.association = opts
	return b
}

// Build validates the configured inputs and returns a runnable pipeline.
// Every variant needs exactly one export per country.
func (b *PipelineBuilder) Build(ctx context.Context) (*Pipeline, error) {
	if len(b.paths) == 0 {
		return nil, fmt.Errorf("%w: at least one path must be provided", ErrNoInputs)
	}

	v := newValidator()
	if err := v.validateOutputDirectory(b.outputDir); err != nil {
		return nil, err
	}

	var files []RawFile
	for _, path := range b.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := v.validatePath(path); err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := DiscoverRawFiles(path)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		f, err := ParseRawFileName(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	sortRawFiles(files)
	files = slices.CompactFunc(files, func(a, b RawFile) bool {
		return a.Path == b.Path
	})
	if err := v.validateInputs(files); err != nil {
		return nil, err
	}

	reg := b.registry
	if reg == nil {
		reg = registry.Default()
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		files:       files,
		registry:    reg,
		logger:      logger,
		store:       NewSnapshotStore(b.outputDir, b.options).WithLogger(logger),
		matrices:    b.matrices,
		association: b.association,
	}, nil
}

// Pipeline runs ingest, normalisation, decoding, merging and snapshotting over a
// validated set of raw exports.
type Pipeline struct {
	files       []RawFile
	registry    *registry.Registry
	logger      *slog.Logger
	store       *SnapshotStore
	matrices    bool
	association derive.AssociationOptions
}

// Result holds the tables a run produced and the snapshot files it wrote.
type Result struct {
	CSO       *model.Table
	Media     *model.Table
	Survey    *model.Table
	Matrices  *derive.Matrices
	Snapshots []string
}

// Files returns the raw exports the pipeline reads, CSO first, countries in fixed order
func (p *Pipeline) Files() []RawFile {
	files := make([]RawFile, len(p.files))
	copy(files, p.files)
	return files
}

// Store returns the snapshot store the pipeline writes to
func (p *Pipeline) Store() *SnapshotStore {
	return p.store
}

// Run harmonises both variants, merges them and writes every snapshot.
// A failure in any stage aborts the run; snapshots written before the failure
// stay in place and earlier snapshots of the failed table are untouched.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	tables := make([]*model.Table, len(model.Variants()))
	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range model.Variants() {
		g.Go(func() error {
			t, err := p.harmonise(gctx, variant)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		CSO:   tables[model.VariantCSO].WithName(SnapshotCSO),
		Media: tables[model.VariantMedia].WithName(SnapshotMedia),
	}
	survey, err := Merge(result.CSO, result.Media)
	if err != nil {
		return nil, err
	}
	result.Survey = survey
	p.logger.Info("merged variants",
		slog.Int("rows", survey.Len()),
		slog.Int("columns", len(survey.Header())))

	outputs := []*model.Table{result.CSO, result.Media, result.Survey}
	if p.matrices {
		columns, interval := derive.AssociationColumns(p.registry, survey)
		opts := p.association
		opts.Interval = interval
		m, err := derive.Association(ctx, survey, columns, opts)
		if err != nil {
			return nil, fmt.Errorf("association matrices: %w", err)
		}
		result.Matrices = m
		corr, err := derive.MatrixTable(SnapshotCorrelation, m.Correlation)
		if err != nil {
			return nil, err
		}
		sig, err := derive.MatrixTable(SnapshotSignificance, m.Significance)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, corr, sig)
	}

	paths, err := p.store.WriteAll(ctx, outputs...)
	if err != nil {
		return result, err
	}
	result.Snapshots = paths
	return result, nil
}

// harmonise runs ingest, normalise and decode for one variant
func (p *Pipeline) harmonise(ctx context.Context, variant model.Variant) (*model.Table, error) {
	checkExport := func(f RawFile, header model.Header) error {
		return CheckExportSchema(p.registry, variant, f.Country, header)
	}
	raw, err := ingest(ctx, variant, p.files, p.logger, checkExport)
	if err != nil {
		p.logSchemaMiss(err)
		return nil, err
	}
	normalised, err := Normalise(p.registry, variant, raw, p.logger)
	if err != nil {
		p.logSchemaMiss(err)
		return nil, err
	}
	decoded, err := Decode(p.registry, variant, normalised, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("decoded variant",
		slog.String("variant", variant.String()),
		slog.Int("rows", decoded.Len()))
	return decoded, nil
}

func (p *Pipeline) logSchemaMiss(err error) {
	var miss *SchemaMissError
	if errors.As(err, &miss) {
		p.logger.Error("export does not match the registry",
			slog.String("variant", miss.Variant.String()),
			slog.String("country", miss.Country),
			slog.Any("missing", miss.Missing))
	}
}
