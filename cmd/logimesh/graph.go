package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "graph [file]",
		Aliases: []string{"viz", "visualize"},
		Short:   "Render the agent graph as a Mermaid flowchart",
		Long:    "Render the orchestrator / worker topology as a Mermaid flowchart, to stdout or to file.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, _, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			g, err := mesh.Graph()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), g)
				return nil
			}

			if err := os.WriteFile(args[0], []byte(g), 0o600); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[OK] Graph visualization saved to %s\n", args[0])

			return nil
		},
	}
}
