package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/logimesh/scenario"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			infos, err := scenario.NewLoader(cfg.DataDir).Index()
			if err != nil {
				return err
			}

			printScenarioList(cmd.OutOrStdout(), infos)

			return nil
		},
	}
}
