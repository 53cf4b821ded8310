package flow

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/model"
	"github.com/hupe1980/logimesh/tool"
)

// Options configures a BaseFlow.
type Options struct {
	Logger   logging.Logger
	Executor FunctionExecutor
}

// BaseFlow is a single-agent flow implementing the request -> LLM -> tool
// loop cycle with pluggable pre/post processors.
type BaseFlow struct {
	agent              FlowAgent
	logger             logging.Logger
	executor           FunctionExecutor
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
}

// NewBaseFlow creates a flow with the default processors: instructions and
// contents on the request side, author stamping on the response side.
func NewBaseFlow(agent FlowAgent, optFns ...func(o *Options)) *BaseFlow {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	executor := opts.Executor
	if executor == nil {
		executor = NewSequentialFunctionExecutor(logger)
	}

	f := &BaseFlow{agent: agent, logger: logger, executor: executor}
	f.AddRequestProcessor(NewInstructionsProcessor())
	f.AddRequestProcessor(NewContentsProcessor())
	f.AddResponseProcessor(NewAuthorProcessor())

	return f
}

// AddRequestProcessor appends a request processor; order of registration defines execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed after each model reply.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// Run executes the loop on state and returns state followed by every
// message produced: agent replies and tool results.
func (f *BaseFlow) Run(ctx context.Context, state core.State) (core.State, error) {
	limiter := core.NewModelLimiter(f.agent.MaxIterations())
	defs := f.toolDefinitions()

	for {
		if err := ctx.Err(); err != nil {
			return core.State{}, err
		}

		if err := limiter.Increment(); err != nil {
			return core.State{}, fmt.Errorf("agent %s: %w", f.agent.GetName(), err)
		}

		msg, err := f.runOnce(ctx, state, defs)
		if err != nil {
			return core.State{}, err
		}

		state = state.Append(msg)

		if !msg.HasToolCalls() {
			f.logger.Debug("agent.flow.complete", "agent", f.agent.GetName(), "model_calls", limiter.Count())
			return state, nil
		}

		state = state.Append(f.executor.Execute(ctx, f.agent, msg.ToolCalls)...)
	}
}

// runOnce performs one model turn and returns the processed reply.
func (f *BaseFlow) runOnce(ctx context.Context, state core.State, defs []model.ToolDefinition) (core.AgentMessage, error) {
	req := model.Request{Tools: defs}

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(ctx, &req, state, f.agent); err != nil {
			return core.AgentMessage{}, fmt.Errorf("request processor %s failed: %w", processor.Name(), err)
		}
	}

	resp, err := model.Collect(ctx, f.agent.GetLLM(), req)
	if err != nil {
		return core.AgentMessage{}, fmt.Errorf("agent %s: model call failed: %w", f.agent.GetName(), err)
	}

	msg := resp.Message
	if msg.ID == "" {
		msg.ID = core.NewID()
	}

	for _, processor := range f.responseProcessors {
		if err := processor.ProcessResponse(ctx, &msg, f.agent); err != nil {
			return core.AgentMessage{}, fmt.Errorf("response processor %s failed: %w", processor.Name(), err)
		}
	}

	f.logger.Debug("agent.model.reply", "agent", f.agent.GetName(), "tool_calls", len(msg.ToolCalls), "content_length", len(msg.Content))

	return msg, nil
}

// toolDefinitions returns the agent's tools ordered by name so requests are
// stable across calls.
func (f *BaseFlow) toolDefinitions() []model.ToolDefinition {
	tools := f.agent.GetTools()
	if len(tools) == 0 {
		return nil
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}

	sort.Strings(names)

	ordered := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, tools[name])
	}

	return tool.Definitions(ordered)
}
