package agent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/flow"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/model"
	"github.com/hupe1980/logimesh/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Description        string
	Instruction        Instruction
	MaxHistoryMessages int // 0 keeps the full conversation
	MaxIterations      int // model calls per invocation, 0 is unlimited
	Tools              []tool.Tool
	Logger             logging.Logger
}

// ModelAgent is an LLM-backed worker. Each Process call runs the tool loop
// on the shared conversation and returns it extended by everything the
// agent produced.
type ModelAgent struct {
	BaseAgent
	llm                model.Model
	instruction        Instruction
	tools              map[string]tool.Tool
	maxHistoryMessages int
	maxIterations      int
	logger             logging.Logger
}

// NewModelAgent creates a new model-based agent.
//
// Defaults:
//   - instruction "You are <name>, a helpful AI assistant."
//   - 10 model calls per invocation
//   - full conversation history
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction:   Text(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		MaxIterations: 10,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ModelAgent{
		BaseAgent:          NewBaseAgent(name),
		llm:                llm,
		instruction:        opts.Instruction,
		tools:              make(map[string]tool.Tool, len(opts.Tools)),
		maxHistoryMessages: opts.MaxHistoryMessages,
		maxIterations:      opts.MaxIterations,
		logger:             logging.OrNoOp(opts.Logger),
	}

	if opts.Description != "" {
		a.SetDescription(opts.Description)
	}

	a.RegisterTools(opts.Tools...)

	return a
}

// RegisterTool adds a tool to the agent's capability set.
func (a *ModelAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *ModelAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the sorted names of all registered tools.
func (a *ModelAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// GetTool retrieves a specific tool by name.
func (a *ModelAgent) GetTool(name string) (tool.Tool, bool) {
	t, exists := a.tools[name]
	return t, exists
}

// GetName returns the agent's name.
func (a *ModelAgent) GetName() string { return a.Name() }

// GetLLM returns the language model instance.
func (a *ModelAgent) GetLLM() model.Model { return a.llm }

// GetTools returns a copy of the registered tools.
func (a *ModelAgent) GetTools() map[string]tool.Tool {
	tools := make(map[string]tool.Tool, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
	}

	return tools
}

// MaxHistoryMessages returns the maximum number of conversation messages sent to the model.
func (a *ModelAgent) MaxHistoryMessages() int { return a.maxHistoryMessages }

// MaxIterations returns the model call budget per invocation.
func (a *ModelAgent) MaxIterations() int { return a.maxIterations }

// ResolveInstructions produces the raw system prompt.
func (a *ModelAgent) ResolveInstructions(ctx context.Context) (string, error) {
	return a.instruction.Resolve(ctx)
}

// Process implements core.Worker.
func (a *ModelAgent) Process(ctx context.Context, state core.State) (core.State, error) {
	a.logger.Debug("agent.run.start", "agent", a.Name(), "messages", state.Len())

	start := time.Now()

	out, err := flow.NewBaseFlow(a, func(o *flow.Options) { o.Logger = a.logger }).Run(ctx, state)
	if err != nil {
		a.logger.Warn("agent.run.error", "agent", a.Name(), "error", err.Error())
		return core.State{}, err
	}

	a.logger.Debug("agent.run.complete", "agent", a.Name(), "produced", out.Len()-state.Len(), "duration_ms", time.Since(start).Milliseconds())

	return out, nil
}

// Node wraps the agent as a coordinator node that drops tool results from
// its output.
func (a *ModelAgent) Node() core.Node {
	return core.NewWorkerNode(a.Name(), a)
}

var (
	_ core.Worker    = (*ModelAgent)(nil)
	_ flow.FlowAgent = (*ModelAgent)(nil)
)
