// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API with tool calling. It also serves OpenAI-compatible
// endpoints such as Gemini's by pointing BaseURL elsewhere.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is the OpenAI model used when none is configured.
	DefaultModel = "gpt-4o"
	// GeminiBaseURL is Google's OpenAI-compatible endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
	BaseURL             string
	// Provider is reported by Info, e.g. "gemini" for the compatible endpoint.
	Provider string
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
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

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:               DefaultModel,
		Temperature:         0,
		MaxCompletionTokens: 4096,
		Provider:            "openai",
	}
}

// Generate adapts a Chat Completion (with tool calling) into a single final
// model.Response.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(req))
		if err != nil {
			errCh <- fmt.Errorf("%s api error: %w", m.opts.Provider, err)
			return
		}

		if len(resp.Choices) == 0 {
			errCh <- fmt.Errorf("no choices returned")
			return
		}

		ch0 := resp.Choices[0]

		msg := core.AgentMessage{ID: core.NewID(), Content: ch0.Message.Content}
		for _, tc := range ch0.Message.ToolCalls {
			args := tc.Function.Arguments
			if args == "" {
				args = "{}"
			}

			msg.ToolCalls = append(msg.ToolCalls, core.ToolInvocation{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: args,
			})
		}

		out <- model.Response{
			ID:           resp.ID,
			Message:      msg,
			FinishReason: ch0.FinishReason,
			Usage: &model.TokenUsage{
				PromptTokens:     int(resp.Usage.PromptTokens),
				CompletionTokens: int(resp.Usage.CompletionTokens),
				TotalTokens:      int(resp.Usage.TotalTokens),
			},
		}
	}()

	return out, errCh
}

// buildMessages converts conversation messages into OpenAI chat messages.
// Only tool calls answered within the request are sent as native calls; the
// rest are described in the assistant text.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	answered := model.AnsweredToolCalls(req.Messages)
	invoked := model.InvokedToolCalls(req.Messages)

	for _, msg := range req.Messages {
		switch m := msg.(type) {
		case core.HumanMessage:
			messages = append(messages, openai.UserMessage(m.Content))
		case core.AgentMessage:
			native, note := model.SplitToolCalls(m, answered)
			text := model.AgentText(m, note)

			if len(native) == 0 {
				messages = append(messages, openai.AssistantMessage(text))
				continue
			}

			assistant := &openai.ChatCompletionAssistantMessageParam{
				Role:      "assistant",
				ToolCalls: extractToolCalls(native),
			}

			if text != "" {
				assistant.Content.OfString = openai.String(text)
			}

			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		case core.ToolResultMessage:
			if !invoked[m.ToolCallID] {
				continue
			}

			messages = append(messages, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}

	return messages
}

// extractToolCalls converts tool invocations into OpenAI formatted tool calls.
func extractToolCalls(calls []core.ToolInvocation) []openai.ChatCompletionMessageToolCallParam {
	toolCalls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(calls))
	for _, tc := range calls {
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID:   tc.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}

	return toolCalls
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if len(req.Tools) == 0 {
		return params
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Function.Name,
				Description: openai.String(tdef.Function.Description),
				Parameters:  tdef.Function.Parameters,
			},
		}
	}

	params.Tools = tools

	// At most one tool call per turn. Compatible endpoints may reject the flag.
	if m.opts.Provider == "openai" {
		params.ParallelToolCalls = openai.Bool(false)
	}

	return params
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      m.opts.Provider,
		SupportsTools: true,
	}
}
