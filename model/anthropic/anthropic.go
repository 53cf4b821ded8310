// Package anthropic provides a model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/model"
)

// DefaultModel is the Claude model used when none is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	APIKey      string
	BaseURL     string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: 0,
		MaxTokens:   4096,
	}
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Generate adapts the Anthropic Messages API (with tool calling) into a
// single final model.Response.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := anthropic.MessageNewParams{
			Model:       anthropic.Model(m.opts.Model),
			Messages:    buildMessages(req.Messages),
			MaxTokens:   m.opts.MaxTokens,
			Temperature: anthropic.Float(m.opts.Temperature),
		}

		if req.Instructions != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
		}

		if len(req.Tools) > 0 {
			params.Tools = buildTools(req.Tools)
		}

		resp, err := m.client.Messages.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("anthropic api error: %w", err)
			return
		}

		msg := core.AgentMessage{ID: core.NewID()}

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				if text := block.AsText().Text; text != "" {
					if msg.Content != "" {
						msg.Content += "\n"
					}

					msg.Content += text
				}
			case "tool_use":
				toolBlock := block.AsToolUse()

				args := "{}"
				if len(toolBlock.Input) > 0 {
					args = string(toolBlock.Input)
				}

				msg.ToolCalls = append(msg.ToolCalls, core.ToolInvocation{
					ID:        toolBlock.ID,
					Name:      toolBlock.Name,
					Arguments: args,
				})
			}
		}

		finishReason := "stop"
		if resp.StopReason != "" {
			finishReason = string(resp.StopReason)
		}

		in, outTokens := int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)

		out <- model.Response{
			ID:           resp.ID,
			Message:      msg,
			FinishReason: finishReason,
			Usage:        &model.TokenUsage{PromptTokens: in, CompletionTokens: outTokens, TotalTokens: in + outTokens},
		}
	}()

	return out, errCh
}

// buildMessages converts conversation messages to the Anthropic format.
// Tool results travel in user turns; consecutive turns of the same role are
// merged because the API expects alternating roles.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	answered := model.AnsweredToolCalls(msgs)
	invoked := model.InvokedToolCalls(msgs)

	var messages []anthropic.MessageParam

	appendTurn := func(role anthropic.MessageParamRole, blocks ...anthropic.ContentBlockParamUnion) {
		if len(blocks) == 0 {
			return
		}

		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, blocks...)
			return
		}

		messages = append(messages, anthropic.MessageParam{Role: role, Content: blocks})
	}

	for _, msg := range msgs {
		switch m := msg.(type) {
		case core.HumanMessage:
			if m.Content != "" {
				appendTurn(anthropic.MessageParamRoleUser, anthropic.NewTextBlock(m.Content))
			}
		case core.AgentMessage:
			appendTurn(anthropic.MessageParamRoleAssistant, buildAssistantContent(m, answered)...)
		case core.ToolResultMessage:
			if !invoked[m.ToolCallID] {
				continue
			}

			appendTurn(anthropic.MessageParamRoleUser, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, m.IsError))
		}
	}

	return messages
}

// buildAssistantContent builds content for assistant messages.
func buildAssistantContent(msg core.AgentMessage, answered map[string]bool) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion

	native, note := model.SplitToolCalls(msg, answered)

	if text := model.AgentText(msg, note); text != "" {
		content = append(content, anthropic.NewTextBlock(text))
	}

	for _, tc := range native {
		var input any = map[string]any{}
		if tc.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Arguments), &input); err != nil {
				input = tc.Arguments // fallback to string
			}
		}

		content = append(content, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
	}

	return content
}

// buildTools converts tool definitions to the Anthropic tool format.
func buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(tools))

	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		if params := tool.Function.Parameters; params != nil {
			if properties, exists := params["properties"]; exists {
				inputSchema.Properties = properties
			}

			if required, exists := params["required"]; exists {
				switch req := required.(type) {
				case []string:
					inputSchema.Required = req
				case []any:
					for _, r := range req {
						if s, ok := r.(string); ok {
							inputSchema.Required = append(inputSchema.Required, s)
						}
					}
				}
			}
		}

		anthropicTools[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Function.Name)
		if anthropicTools[i].OfTool != nil && tool.Function.Description != "" {
			anthropicTools[i].OfTool.Description = anthropic.String(tool.Function.Description)
		}
	}

	return anthropicTools
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
