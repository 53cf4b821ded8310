package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/logimesh/scenario"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario-id]",
		Short: "Check the provider configuration and scenario data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			info := cfg.Info()

			fmt.Fprintf(w, "Provider: %s (%s)\n", info.Provider, info.Model)

			failed := 0

			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(w, "[FAIL] configuration: %v\n", err)
				failed++
			} else {
				fmt.Fprintln(w, "[OK] configuration")
			}

			ids := scenario.IDs()

			if len(args) == 1 {
				id, err := scenario.ParseID(args[0])
				if err != nil {
					return err
				}

				ids = []int{id}
			}

			loader := scenario.NewLoader(cfg.DataDir)

			for _, id := range ids {
				if err := loader.Validate(id); err != nil {
					fmt.Fprintf(w, "[FAIL] scenario %d: %v\n", id, err)
					failed++

					continue
				}

				fmt.Fprintf(w, "[OK] scenario %d\n", id)
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}

			return nil
		},
	}
}
