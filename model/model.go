package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/logimesh/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by flows and the
// orchestrator.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt
	Messages     []core.Message   `json:"messages"`     // Conversation converted to provider messages
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	ID           string            `json:"id"`
	Partial      bool              `json:"partial"` // Indicates if this is a partial response
	Message      core.AgentMessage `json:"message"`
	FinishReason string            `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage       `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "anthropic", "openai", "gemini", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by flows and the orchestrator to
// drive generation. Implementations close both channels when done and send
// at most one error.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrNoResponse is returned by Collect when a model closes its channels
// without a final response.
var ErrNoResponse = errors.New("model returned no final response")

// Collect drives m to completion and returns the final (non-partial)
// response. It blocks until the model is done, the model fails or ctx is
// cancelled.
func Collect(ctx context.Context, m Model, req Request) (*Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var final *Response

	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}

			if !r.Partial {
				rc := r
				final = &rc
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}

			if err != nil {
				return nil, err
			}
		}
	}

	if final == nil {
		return nil, fmt.Errorf("%s: %w", m.Info().Name, ErrNoResponse)
	}

	return final, nil
}
