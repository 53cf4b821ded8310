package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/metrics"
	"github.com/hupe1980/logimesh/tool"
)

// FunctionExecutor executes the tool calls of one model reply and returns
// exactly one tool result per call, in call order. Implementations must
// never panic and must respect ctx cancellation.
type FunctionExecutor interface {
	Execute(ctx context.Context, agent FlowAgent, calls []core.ToolInvocation) []core.Message
}

// sequentialFunctionExecutor runs calls one after another.
type sequentialFunctionExecutor struct {
	logger logging.Logger
}

// NewSequentialFunctionExecutor constructs the default executor.
func NewSequentialFunctionExecutor(logger logging.Logger) FunctionExecutor {
	return &sequentialFunctionExecutor{logger: logging.OrNoOp(logger)}
}

func (e *sequentialFunctionExecutor) Execute(ctx context.Context, agent FlowAgent, calls []core.ToolInvocation) []core.Message {
	tools := agent.GetTools()
	results := make([]core.Message, 0, len(calls))

	for _, fc := range calls {
		if err := ctx.Err(); err != nil {
			results = append(results, core.NewToolResultMessage(fc.ID, fc.Name, FormatToolError(err), true))
			continue
		}

		results = append(results, e.executeSingle(ctx, agent, tools, fc))
	}

	return results
}

func (e *sequentialFunctionExecutor) executeSingle(ctx context.Context, agent FlowAgent, tools map[string]tool.Tool, fc core.ToolInvocation) core.Message {
	toolCtx := core.NewToolContext(ctx, core.AgentInfo{Name: agent.GetName(), Type: core.AgentTypeWorker}, fc.ID, e.logger)

	start := time.Now()

	var (
		result any
		err    error
	)

	func() { // panic safety
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
				e.logger.Error("agent.function.panic", "agent", agent.GetName(), "function", fc.Name, "recover", r)
			}
		}()

		result, err = executeTool(tools, toolCtx, fc)
	}()

	dur := time.Since(start)
	metrics.RecordToolCall(fc.Name, metrics.Status(err), dur.Seconds())

	e.logger.Info(
		"agent.function.executed",
		"agent", agent.GetName(),
		"function", fc.Name,
		"function_call_id", fc.ID,
		"duration_ms", dur.Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		return core.NewToolResultMessage(fc.ID, fc.Name, FormatToolError(err), true)
	}

	content, err := FormatToolResult(result)
	if err != nil {
		return core.NewToolResultMessage(fc.ID, fc.Name, FormatToolError(err), true)
	}

	return core.NewToolResultMessage(fc.ID, fc.Name, content, false)
}

// FormatToolResult renders a tool return value as message content. Strings
// are used verbatim, anything else is encoded as JSON.
func FormatToolResult(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}

	return string(b), nil
}

// FormatToolError renders a tool failure as message content the model can
// react to.
func FormatToolError(err error) string {
	var toolErr *tool.ToolError
	if errors.As(err, &toolErr) {
		return fmt.Sprintf("Error: %s\nPlease fix your mistakes.", toolErr.Message)
	}

	return fmt.Sprintf("Error: %s\nPlease fix your mistakes.", err.Error())
}

// panicError converts a recovered panic value to an error.
func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }

// executeTool centralizes tool lookup and argument decoding.
func executeTool(tools map[string]tool.Tool, toolCtx *core.ToolContext, fc core.ToolInvocation) (any, error) {
	impl, ok := tools[fc.Name]
	if !ok {
		return nil, tool.NewToolError(fc.Name, fmt.Sprintf("tool %s not found", fc.Name), tool.CodeNotFound)
	}

	args, err := fc.DecodeArguments()
	if err != nil {
		return nil, tool.NewToolError(fc.Name, fmt.Sprintf("failed to unmarshal args: %v", err), tool.CodeValidation)
	}

	return impl.Call(toolCtx, args)
}
