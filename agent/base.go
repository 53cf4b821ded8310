package agent

import (
	"fmt"

	"github.com/hupe1980/logimesh/core"
)

// BaseAgent bundles the identity shared by agent implementations.
type BaseAgent struct {
	name        string // Unique name, also the handoff target
	description string // What the agent is good at
}

// NewBaseAgent constructs a BaseAgent with generated description (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the agent name.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Info returns the identity handed to tools.
func (b *BaseAgent) Info() core.AgentInfo {
	return core.AgentInfo{Name: b.name, Type: core.AgentTypeWorker}
}
