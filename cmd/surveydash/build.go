package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/surveydash"
	"github.com/nao1215/surveydash/derive"
)

type buildOptions struct {
	rawDir   string
	outDir   string
	bins     int
	noMatrix bool
	compress string
	workers  int
}

func newBuildCmd(opts *globalOptions) *cobra.Command {
	b := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Harmonise the raw exports and write the snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts, b)
		},
	}
	cmd.Flags().StringVar(&b.rawDir, "raw-dir", "", "directory of raw exports (default raw_dir from the config)")
	cmd.Flags().StringVar(&b.outDir, "out-dir", "", "snapshot directory (default snapshot_dir from the config)")
	cmd.Flags().IntVar(&b.bins, "bins", 0, "equal-width bins for numeric columns (default bins from the config)")
	cmd.Flags().BoolVar(&b.noMatrix, "no-matrix", false, "skip the correlation and significance matrices")
	cmd.Flags().StringVar(&b.compress, "compress", "none", "compression of the CSV snapshots: none, gz, xz or zstd")
	cmd.Flags().IntVar(&b.workers, "workers", 0, "concurrent matrix rows (default GOMAXPROCS)")
	return cmd
}

func runBuild(cmd *cobra.Command, opts *globalOptions, b *buildOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if b.rawDir == "" {
		b.rawDir = cfg.RawDir
	}
	if b.outDir == "" {
		b.outDir = cfg.SnapshotDir
	}
	if b.bins == 0 {
		b.bins = cfg.Bins
	}
	compression, err := surveydash.ParseCompressionType(b.compress)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pipeline, err := surveydash.NewPipeline().
		AddPath(b.rawDir).
		WithOutputDir(b.outDir).
		WithSnapshotOptions(surveydash.NewSnapshotOptions().WithCompression(compression)).
		WithLogger(opts.logger(cmd.ErrOrStderr())).
		WithMatrices(!b.noMatrix).
		WithAssociationOptions(derive.AssociationOptions{Bins: b.bins, Workers: b.workers}).
		Build(ctx)
	if err != nil {
		return err
	}
	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	for _, p := range result.Snapshots {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
