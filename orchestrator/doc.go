// Package orchestrator implements the coordinator of a supervisor style
// multi-agent run.
//
// The coordinator is an LLM offered one handoff tool per worker
// ("transfer_to_<agent>"). Each turn it either delegates to exactly one
// worker or answers without tool calls, which ends the run with that answer
// as the final summary. A delegated worker runs on the current conversation;
// its output is passed through core.NewWorkerNode, so tool results never
// reach the coordinator, and the filtered messages are merged back by ID.
//
// Usage:
//
//	orch, err := orchestrator.New(llm, members, func(o *orchestrator.Options) {
//		o.Instruction = logistics.CoordinatorPrompt
//		o.Logger = logger
//	})
//	res, err := orch.Run(ctx, trigger, func(s orchestrator.Step) { fmt.Println(s.Node) })
//
// Every run is traced with OpenTelemetry (one span per run, coordinator turn
// and worker invocation) and recorded in the Prometheus collectors of the
// metrics package.
package orchestrator
