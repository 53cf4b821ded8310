// Package core provides the foundational domain types used by logimesh:
//
//   - Message, a closed tagged union of Human, Agent and ToolResult entries
//   - State, the conversation shared between the coordinator and its workers
//   - Worker / Node, the state transformer contract and its filtering adapter
//   - ToolContext, the scoped surface handed to tool implementations
//
// The package keeps provider, persistence and orchestration concerns out of
// scope. The two central operations are FilterToolResults, which strips tool
// output from a message sequence, and NewWorkerNode, which wraps a worker so
// that only its conversational messages flow back to the coordinator.
package core
