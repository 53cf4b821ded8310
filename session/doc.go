// Package session keeps the history of orchestrator runs started through the
// dashboard server.
//
// A Record captures the outcome of one run: scenario, status, the steps the
// coordinator and its workers produced and the final summary. The live
// conversation state is never persisted.
//
// Two Store implementations are provided:
//
//   - InMemoryStore for tests and single process servers
//   - RedisStore for shared history with automatic expiry
//
// Callers depend on the Store interface; only the wiring layer decides which
// implementation to instantiate.
package session
