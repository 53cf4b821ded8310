// Package runner manages asynchronous scenario runs for long lived
// processes such as the dashboard server.
//
// The Runner starts each run in its own goroutine, streams the orchestrator
// steps to the caller, persists a session.Record as the run progresses and
// supports cancellation by run id.
//
// # Responsibilities (abridged)
//   - Run lifecycle management and cancellation
//   - Concurrency limiting across runs
//   - Step streaming (attached) and fire-and-forget submission (detached)
//   - Run history persistence
package runner
