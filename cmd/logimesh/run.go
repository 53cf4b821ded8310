package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/logimesh"
	"github.com/hupe1980/logimesh/orchestrator"
	"github.com/hupe1980/logimesh/scenario"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run <scenario-id>",
		Short: "Run one scenario (1-6) and print every step and the final summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := scenario.ParseID(args[0])
			if err != nil {
				return err
			}

			mesh, _, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			return runScenario(cmd.Context(), cmd.OutOrStdout(), mesh, id, !quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final summary")

	return cmd
}

// runScenario runs scenario id and prints its progress to w.
func runScenario(ctx context.Context, w io.Writer, mesh *logimesh.Mesh, id int, verbose bool) error {
	sc, err := mesh.Scenario(id)
	if err != nil {
		return fmt.Errorf("failed to load scenario %d: %w", id, err)
	}

	if verbose {
		printRunHeader(w, sc)
	}

	res, err := mesh.RunScenario(ctx, id, func(s orchestrator.Step) {
		if verbose {
			printStep(w, s)
		}
	})
	if err != nil {
		fmt.Fprintf(w, "\n[ERROR] Error during scenario execution: %v\n", err)
		return err
	}

	printSummary(w, res)

	return nil
}
