// Package agent contains the LLM-backed worker used by the coordinator.
//
// A ModelAgent bundles a name, a description (shown to the coordinator on
// its handoff tool), an instruction, a model and a tool registry. It
// implements core.Worker by running a flow.BaseFlow over the shared
// conversation, so it can be wrapped as a coordinator node with Node.
package agent
