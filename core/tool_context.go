package core

import (
	"context"
	"errors"

	"github.com/hupe1980/logimesh/logging"
)

// ErrInvalidToolContext is returned by ToolContext.Validate.
var ErrInvalidToolContext = errors.New("invalid tool context")

// ToolContext is what a tool sees of the run: the cancellation context, the
// calling agent and the tool call being answered.
type ToolContext struct {
	ctx    context.Context
	callID string
	agent  AgentInfo
	logger logging.Logger
}

// NewToolContext builds the context for answering callID on behalf of agent.
// A nil logger discards output.
func NewToolContext(ctx context.Context, agent AgentInfo, callID string, logger logging.Logger) *ToolContext {
	return &ToolContext{ctx: ctx, callID: callID, agent: agent, logger: logging.OrNoOp(logger)}
}

// Context returns the run's context.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// Logger returns a logger scoped to the calling agent and tool call.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// FunctionCallID returns the ID of the tool call being answered.
func (tc *ToolContext) FunctionCallID() string { return tc.callID }

// AgentName returns the calling agent's name.
func (tc *ToolContext) AgentName() string { return tc.agent.Name }

// AgentType returns the calling agent's type.
func (tc *ToolContext) AgentType() string { return tc.agent.Type }

// Validate reports ErrInvalidToolContext when the context cannot be used.
func (tc *ToolContext) Validate() error {
	if !tc.IsValid() {
		return ErrInvalidToolContext
	}

	return nil
}

// IsValid reports whether a tool may run with tc.
func (tc *ToolContext) IsValid() bool {
	return tc != nil && tc.ctx != nil && tc.callID != ""
}
