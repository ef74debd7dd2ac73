package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/surveydash/fetch"
)

func newFetchCmd(opts *globalOptions) *cobra.Command {
	var rawDir string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download every configured survey export from the questionnaire host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			creds, err := cfg.Credentials()
			if err != nil {
				return err
			}
			surveys, err := cfg.FetchSurveys()
			if err != nil {
				return err
			}
			if len(surveys) == 0 {
				return fmt.Errorf("no surveys configured in %s", opts.configPath)
			}
			if rawDir == "" {
				rawDir = cfg.RawDir
			}

			clientOpts := []fetch.Option{fetch.WithLogger(opts.logger(cmd.ErrOrStderr()))}
			if cfg.Remote.Timeout > 0 {
				clientOpts = append(clientOpts, fetch.WithTimeout(cfg.Remote.Timeout))
			}
			client, err := fetch.New(creds, clientOpts...)
			if err != nil {
				return err
			}
			paths, err := client.FetchAll(cmd.Context(), surveys, rawDir)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "destination directory (default raw_dir from the config)")
	return cmd
}
