package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/logimesh/orchestrator"
	"github.com/hupe1980/logimesh/scenario"
)

const previewRunes = 200

func rule(ch string, n int) string { return strings.Repeat(ch, n) }

func printBanner(w io.Writer, title string, width int) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule("=", width), title, rule("=", width))
}

func printScenarioList(w io.Writer, infos []scenario.Info) {
	printBanner(w, "AVAILABLE SCENARIOS", 60)
	fmt.Fprintln(w)

	for _, info := range infos {
		fmt.Fprintf(w, "[%d] %s\n", info.ID, info.Name)
		fmt.Fprintf(w, "    Severity: %s | Complexity: %s\n\n", info.Severity, info.Complexity)
	}
}

func printRunHeader(w io.Writer, sc *scenario.Scenario) {
	printBanner(w, fmt.Sprintf("RUNNING SCENARIO %d", sc.ID), 70)

	if sc.Summary != "" {
		fmt.Fprintln(w, sc.Summary)
	}

	fmt.Fprintf(w, "\n%s\nTRIGGER EVENT\n%s\n", rule("-", 70), rule("-", 70))
	fmt.Fprintln(w, sc.Message)

	printBanner(w, "AGENT EXECUTION", 70)
	fmt.Fprintln(w)
}

func printStep(w io.Writer, s orchestrator.Step) {
	fmt.Fprintf(w, "\n[Step %d] Processing node: %s\n", s.Index, s.Node)

	if preview := s.Preview(previewRunes); preview != "" {
		fmt.Fprintf(w, "  Message: %s\n", preview)
	}
}

func printSummary(w io.Writer, res *orchestrator.Result) {
	printBanner(w, "FINAL SUMMARY", 70)
	fmt.Fprintln(w)

	summary := res.FinalSummary()

	switch {
	case len(strings.TrimSpace(summary)) > 50:
		fmt.Fprintln(w, summary)
	case len(res.Steps) > 0:
		fmt.Fprint(w, "=== AGENT INTERACTIONS ===\n\n")

		for _, s := range res.Steps {
			if s.Content() == "" {
				continue
			}

			fmt.Fprintf(w, "\n[%d] %s:\n%s\n%s\n\n", s.Index, s.Node, rule("-", 70), s.Content())
		}
	default:
		fmt.Fprintln(w, "[No summary generated - check if the orchestrator completed successfully]")
	}

	fmt.Fprintf(w, "\n%s\n\n", rule("=", 70))
}
