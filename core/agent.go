package core

// AgentInfo carries identifying details about an agent used in contexts and logs.
// Name is the external identifier; Type categorizes implementation (e.g. "orchestrator", "worker").
type AgentInfo struct{ Name, Type string }

const (
	// AgentTypeOrchestrator marks the coordinating agent.
	AgentTypeOrchestrator = "orchestrator"
	// AgentTypeWorker marks a specialist worker agent.
	AgentTypeWorker = "worker"
)
