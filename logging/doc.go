// Package logging is the structured logging layer shared by every logimesh
// component.
//
// Components depend on the small Logger interface (Debug, Info, Warn, Error
// with slog key/value args) and fall back to NoOpLogger via OrNoOp. The CLI
// and server build a MeshLogger, which adds component and run context plus
// helpers for the events the mesh emits:
//
//	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "json"})
//	runLog := logger.WithComponent("orchestrator").WithRun(runID, "scenario_2_route_disruption")
//	runLog.LogWorkerCall("route_planner", 2, 3, time.Second, nil)
//
// Event names are dotted lower-case identifiers such as worker.node.completed
// or tool.call.failed.
package logging
