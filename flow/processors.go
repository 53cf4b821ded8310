package flow

import (
	"context"
	"fmt"

	"github.com/hupe1980/logimesh/core"
	internalutil "github.com/hupe1980/logimesh/internal/util"
	"github.com/hupe1980/logimesh/model"
)

// InstructionsProcessor handles system prompt and instruction processing.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest resolves the agent instructions and renders them against
// the template variables carried by ctx plus agent_name.
func (p *InstructionsProcessor) ProcessRequest(ctx context.Context, req *model.Request, _ core.State, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	vars := map[string]any{"agent_name": agent.GetName()}
	for k, v := range TemplateVars(ctx) {
		vars[k] = v
	}

	req.Instructions, err = internalutil.RenderTemplate(instructions, vars)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return nil
}

// ContentsProcessor copies the conversation into the request.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest adds the conversation history to the request, capped at
// the agent's MaxHistoryMessages.
func (p *ContentsProcessor) ProcessRequest(_ context.Context, req *model.Request, state core.State, agent FlowAgent) error {
	req.Messages = TrimHistory(state.Messages, agent.MaxHistoryMessages())
	return nil
}

// TrimHistory keeps the last max messages of msgs. The window never starts
// on a tool result, whose invocation would be cut off, and the opening human
// message is kept in front when it falls outside the window. A max of zero
// or less keeps everything.
func TrimHistory(msgs []core.Message, max int) []core.Message {
	if max <= 0 || len(msgs) <= max {
		return append([]core.Message{}, msgs...)
	}

	start := len(msgs) - max
	for start < len(msgs) && msgs[start].Kind() == core.KindToolResult {
		start++
	}

	out := make([]core.Message, 0, max+1)

	if first := msgs[0]; first.Kind() == core.KindHuman && start > 0 {
		out = append(out, first)
	}

	return append(out, msgs[start:]...)
}

// AuthorProcessor stamps the agent name on every model reply.
type AuthorProcessor struct{}

// NewAuthorProcessor creates a new author processor.
func NewAuthorProcessor() *AuthorProcessor { return &AuthorProcessor{} }

// Name returns the processor's identifier.
func (p *AuthorProcessor) Name() string { return "author" }

// ProcessResponse sets msg.Author to the agent name.
func (p *AuthorProcessor) ProcessResponse(_ context.Context, msg *core.AgentMessage, agent FlowAgent) error {
	msg.Author = agent.GetName()
	return nil
}
