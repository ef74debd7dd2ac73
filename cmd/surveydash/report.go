package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nao1215/surveydash"
	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/present"
	"github.com/nao1215/surveydash/registry"
	"github.com/nao1215/surveydash/sqlview"
)

type reportOptions struct {
	snapshotDir string
	snapshot    string
	where       string
}

// chartFunc builds one chart from the loaded snapshot and the filter mask
type chartFunc func(reg *registry.Registry, t *model.Table, mask present.Mask, name string) (any, error)

func newReportCmd(opts *globalOptions) *cobra.Command {
	r := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print chart data from a snapshot as JSON",
	}
	cmd.PersistentFlags().StringVar(&r.snapshotDir, "snapshot-dir", "", "snapshot directory (default snapshot_dir from the config)")
	cmd.PersistentFlags().StringVar(&r.snapshot, "snapshot", surveydash.SnapshotSurvey, "snapshot table to read")
	cmd.PersistentFlags().StringVar(&r.where, "where", "", "SQL condition selecting the respondents, e.g. \"country = 'Germany'\"")

	charts := []struct {
		use, short string
		build      chartFunc
	}{
		{"counts <variable>", "Value counts of one variable", func(reg *registry.Registry, t *model.Table, m present.Mask, name string) (any, error) {
			return present.BarChart(reg, t, m, name)
		}},
		{"stacked <family>", "Answer counts of a matrix question", func(reg *registry.Registry, t *model.Table, m present.Mask, name string) (any, error) {
			return present.StackedBarChart(reg, t, m, name)
		}},
		{"hist <family>", "Ticked options of a multi-select question per country", func(reg *registry.Registry, t *model.Table, m present.Mask, name string) (any, error) {
			return present.CountryHistogramChart(reg, t, m, name)
		}},
		{"rank <family>", "Weighted scores of a ranking question", func(reg *registry.Registry, t *model.Table, m present.Mask, name string) (any, error) {
			return present.RankChart(reg, t, m, name)
		}},
		{"crosstab <variable>", "Counts of a categorical variable by country", func(reg *registry.Registry, t *model.Table, m present.Mask, name string) (any, error) {
			return present.CrossTabChart(reg, t, m, name)
		}},
	}
	for _, c := range charts {
		build := c.build
		cmd.AddCommand(&cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChart(cmd, opts, r, args[0], build)
			},
		})
	}
	cmd.AddCommand(newHeatmapCmd(opts, r))
	return cmd
}

func runChart(cmd *cobra.Command, opts *globalOptions, r *reportOptions, name string, build chartFunc) error {
	ctx := cmd.Context()
	table, err := r.load(ctx, opts, r.snapshot)
	if err != nil {
		return err
	}
	mask, err := r.mask(ctx, table)
	if err != nil {
		return err
	}
	chart, err := build(registry.Default(), table, mask, name)
	if err != nil {
		return err
	}
	return printJSON(cmd, chart)
}

func newHeatmapCmd(opts *globalOptions, r *reportOptions) *cobra.Command {
	var significance bool
	cmd := &cobra.Command{
		Use:   "heatmap [variable...]",
		Short: "Correlation or significance matrix, optionally restricted to some variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := surveydash.SnapshotCorrelation
			if significance {
				name = surveydash.SnapshotSignificance
			}
			table, err := r.load(cmd.Context(), opts, name)
			if err != nil {
				return err
			}
			chart, err := present.HeatmapChart(table, args...)
			if err != nil {
				return err
			}
			return printJSON(cmd, chart)
		},
	}
	cmd.Flags().BoolVar(&significance, "sig", false, "show significance instead of correlation")
	return cmd
}

func (r *reportOptions) load(ctx context.Context, opts *globalOptions, name string) (*model.Table, error) {
	dir := r.snapshotDir
	if dir == "" {
		cfg, err := opts.loadConfig()
		if err != nil {
			return nil, err
		}
		dir = cfg.SnapshotDir
	}
	return surveydash.NewSnapshotStore(dir).Load(ctx, name)
}

// mask evaluates --where; without it every row is selected.
func (r *reportOptions) mask(ctx context.Context, table *model.Table) (present.Mask, error) {
	if r.where == "" {
		return nil, nil
	}
	view, err := sqlview.Open(ctx, table)
	if err != nil {
		return nil, err
	}
	defer view.Close()
	return view.Mask(ctx, r.where)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
