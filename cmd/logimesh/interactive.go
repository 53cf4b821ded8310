package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/logimesh"
	"github.com/hupe1980/logimesh/scenario"
)

func newInteractiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Pick scenarios to run from a menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	mesh, _, err := opts.setup(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	printBanner(w, "LOGISTICS MULTI-AGENT SYSTEM - INTERACTIVE MODE", 70)
	fmt.Fprintln(w)
	listScenarios(cmd, mesh)

	in := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprintf(w, "\n%s\n", rule("-", 70))
		fmt.Fprint(w, "\nEnter scenario ID (1-6), 'list' to see scenarios, or 'quit' to exit: ")

		if !in.Scan() {
			fmt.Fprintln(w)
			return in.Err()
		}

		choice := strings.ToLower(strings.TrimSpace(in.Text()))

		switch choice {
		case "quit", "exit":
			fmt.Fprintln(w, "Exiting...")
			return nil
		case "list":
			listScenarios(cmd, mesh)
			continue
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(w, "Invalid input. Please enter a number, 'list', or 'quit'.")
			continue
		}

		id, err := scenario.ParseID(strconv.Itoa(n))
		if err != nil {
			fmt.Fprintln(w, "Invalid scenario ID. Please enter a number between 1 and 6.")
			continue
		}

		// A failed run is reported and the menu continues.
		_ = runScenario(cmd.Context(), w, mesh, id, true)

		if cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
	}
}

func listScenarios(cmd *cobra.Command, mesh *logimesh.Mesh) {
	infos, err := mesh.Scenarios()
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Error listing scenarios: %v\n", err)
		return
	}

	printScenarioList(cmd.OutOrStdout(), infos)
}
