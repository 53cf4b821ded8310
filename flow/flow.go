// Package flow runs the tool loop of a single LLM-backed worker.
//
// A flow repeatedly builds a model request through its request processors,
// calls the model, post-processes the reply through its response processors
// and executes any requested tools, until the model answers without tool
// calls or the agent's iteration budget is spent.
package flow

import (
	"context"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/model"
	"github.com/hupe1980/logimesh/tool"
)

// FlowAgent defines the interface that agents must implement to work with flows.
//
// It gives flows access to agent capabilities without exposing the full
// agent implementation.
type FlowAgent interface {
	// GetName returns the agent's name, used as author of its messages.
	GetName() string

	// GetLLM returns the language model instance.
	GetLLM() model.Model

	// ResolveInstructions returns the raw (unrendered) system prompt.
	ResolveInstructions(ctx context.Context) (string, error)

	// GetTools returns the registered tools for function calling.
	GetTools() map[string]tool.Tool

	// MaxHistoryMessages returns the maximum number of conversation messages
	// sent to the model. Zero keeps the full history.
	MaxHistoryMessages() int

	// MaxIterations bounds the number of model calls per invocation.
	// Zero means unlimited.
	MaxIterations() int
}

// RequestProcessor processes the request before sending it to the LLM.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the request before LLM execution.
	ProcessRequest(ctx context.Context, req *model.Request, state core.State, agent FlowAgent) error
}

// ResponseProcessor processes the response after receiving it from the LLM.
type ResponseProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessResponse may rewrite the message produced by the model.
	ProcessResponse(ctx context.Context, msg *core.AgentMessage, agent FlowAgent) error
}

type varsKey struct{}

// WithTemplateVars returns a context carrying vars for instruction rendering.
// Values already present in ctx are kept unless overridden.
func WithTemplateVars(ctx context.Context, vars map[string]any) context.Context {
	merged := map[string]any{}
	for k, v := range TemplateVars(ctx) {
		merged[k] = v
	}

	for k, v := range vars {
		merged[k] = v
	}

	return context.WithValue(ctx, varsKey{}, merged)
}

// TemplateVars returns the instruction template variables carried by ctx.
func TemplateVars(ctx context.Context) map[string]any {
	if vars, ok := ctx.Value(varsKey{}).(map[string]any); ok {
		return vars
	}

	return nil
}
