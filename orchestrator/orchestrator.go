package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/flow"
	internalutil "github.com/hupe1980/logimesh/internal/util"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/metrics"
	"github.com/hupe1980/logimesh/model"
	"github.com/hupe1980/logimesh/tool"
)

const tracerName = "github.com/hupe1980/logimesh/orchestrator"

// DefaultName is the coordinator's author name.
const DefaultName = "Main Orchestrator"

// Member is a worker the coordinator can delegate to.
type Member struct {
	Name        string
	Description string
	Worker      core.Worker
}

// Options configures an Orchestrator.
type Options struct {
	// Name is the coordinator's author name.
	Name string
	// Instruction is the coordinator's system prompt. It may use
	// text/template actions rendered against flow.TemplateVars.
	Instruction string
	// MaxSteps caps coordinator turns per run; 0 is unlimited.
	MaxSteps int
	// StepBufferSize sets the buffering of Stream's step channel.
	StepBufferSize int
	Logger         logging.Logger
	TracerProvider trace.TracerProvider
}

// Orchestrator runs the coordinator loop over a fixed set of workers.
// It holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	llm         model.Model
	members     []Member
	index       map[string]int
	name        string
	instruction string
	maxSteps    int
	bufferSize  int
	logger      logging.Logger
	tracer      trace.Tracer
}

// New creates an Orchestrator. Member names must be unique and non-empty.
func New(llm model.Model, members []Member, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Name:           DefaultName,
		Instruction:    "You are a coordinator. Delegate each task to the most suitable agent using the transfer tools, one agent at a time, then summarize the results.",
		MaxSteps:       25,
		StepBufferSize: 16,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if llm == nil {
		return nil, errors.New("orchestrator: model is required")
	}

	if len(members) == 0 {
		return nil, errors.New("orchestrator: at least one member is required")
	}

	index := make(map[string]int, len(members))

	for i, m := range members {
		if m.Name == "" || m.Worker == nil {
			return nil, fmt.Errorf("orchestrator: member %d needs a name and a worker", i)
		}

		if _, dup := index[m.Name]; dup {
			return nil, fmt.Errorf("orchestrator: duplicate member %q", m.Name)
		}

		index[m.Name] = i
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Orchestrator{
		llm:         llm,
		members:     append([]Member{}, members...),
		index:       index,
		name:        opts.Name,
		instruction: opts.Instruction,
		maxSteps:    opts.MaxSteps,
		bufferSize:  opts.StepBufferSize,
		logger:      logging.OrNoOp(opts.Logger),
		tracer:      tp.Tracer(tracerName),
	}, nil
}

// Name returns the coordinator's author name.
func (o *Orchestrator) Name() string { return o.name }

// Members returns the member names in registration order.
func (o *Orchestrator) Members() []string {
	names := make([]string, len(o.members))
	for i, m := range o.members {
		names[i] = m.Name
	}

	return names
}

// run is the per-invocation bookkeeping.
type run struct {
	id      string
	state   core.State
	steps   []Step
	observe func(Step)
}

func (r *run) emit(s Step) {
	s.Index = len(r.steps) + 1
	r.steps = append(r.steps, s)

	if r.observe != nil {
		r.observe(s)
	}
}

// Run drives the coordinator for trigger until it answers without a
// handoff. observe, when non-nil, is called synchronously for every step.
func (o *Orchestrator) Run(ctx context.Context, trigger string, observe func(Step)) (*Result, error) {
	r := &run{id: core.NewID(), state: core.NewState(core.NewHumanMessage(trigger)), observe: observe}

	ctx, span := o.tracer.Start(ctx, "orchestrator.run", trace.WithAttributes(
		attribute.String("logimesh.run_id", r.id),
		attribute.Int("logimesh.members", len(o.members)),
	))
	defer span.End()

	start := time.Now()

	metrics.RecordRunStart()
	o.logger.Info("orchestrator.run.start", "run_id", r.id, "members", len(o.members))

	summary, err := o.loop(ctx, r)

	duration := time.Since(start)
	metrics.RecordRunEnd(metrics.Status(err), duration.Seconds())

	span.SetAttributes(attribute.Int("logimesh.steps", len(r.steps)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error("orchestrator.run.error", "run_id", r.id, "steps", len(r.steps), "error", err.Error())

		return nil, err
	}

	o.logger.Info("orchestrator.run.complete", "run_id", r.id, "steps", len(r.steps), "duration_ms", duration.Milliseconds())

	return &Result{RunID: r.id, Summary: summary, Steps: r.steps, State: r.state, Duration: duration}, nil
}

// Stream runs trigger in a separate goroutine and delivers every step on
// the returned channel. The last step of a successful run has Final set.
// At most one error is sent; both channels are closed when the run ends.
func (o *Orchestrator) Stream(ctx context.Context, trigger string) (<-chan Step, <-chan error) {
	stepsCh := make(chan Step, o.bufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(stepsCh)
			close(errCh)
		}()

		_, err := o.Run(ctx, trigger, func(s Step) {
			select {
			case <-ctx.Done():
			case stepsCh <- s:
			}
		})
		if err != nil {
			errCh <- err
		}
	}()

	return stepsCh, errCh
}

func (o *Orchestrator) loop(ctx context.Context, r *run) (string, error) {
	limiter := core.NewModelLimiter(o.maxSteps)
	defs := o.toolDefinitions()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := limiter.Increment(); err != nil {
			return "", fmt.Errorf("%w (%d)", ErrMaxSteps, o.maxSteps)
		}

		msg, err := o.coordinatorTurn(ctx, r, defs)
		if err != nil {
			return "", err
		}

		r.state = r.state.Append(msg)

		if !msg.HasToolCalls() {
			r.emit(Step{Node: o.name, Kind: StepCoordinator, Messages: []core.Message{msg}, Final: true})
			return msg.Content, nil
		}

		r.emit(Step{Node: o.name, Kind: StepCoordinator, Messages: []core.Message{msg}})

		target, results := o.route(msg.ToolCalls)
		r.state = r.state.Append(results...)

		if target == nil {
			continue
		}

		if err := o.delegate(ctx, r, *target); err != nil {
			return "", err
		}
	}
}

func (o *Orchestrator) coordinatorTurn(ctx context.Context, r *run, defs []model.ToolDefinition) (core.AgentMessage, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.coordinator", trace.WithAttributes(
		attribute.Int("logimesh.messages", r.state.Len()),
	))
	defer span.End()

	instructions, err := internalutil.RenderTemplate(o.instruction, flow.TemplateVars(ctx))
	if err != nil {
		return core.AgentMessage{}, fmt.Errorf("render coordinator instruction: %w", err)
	}

	resp, err := model.Collect(ctx, o.llm, model.Request{
		Instructions: instructions,
		Messages:     r.state.Messages,
		Tools:        defs,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return core.AgentMessage{}, fmt.Errorf("coordinator: %w", err)
	}

	msg := resp.Message
	if msg.ID == "" {
		msg.ID = core.NewID()
	}

	msg.Author = o.name

	span.SetAttributes(attribute.Int("logimesh.tool_calls", len(msg.ToolCalls)))
	o.logger.Debug("orchestrator.coordinator.turn", "run_id", r.id, "tool_calls", len(msg.ToolCalls))

	return msg, nil
}

// route answers every tool call of a coordinator turn. Only the first call
// may delegate; it is honoured when it names a known member.
func (o *Orchestrator) route(calls []core.ToolInvocation) (*Member, []core.Message) {
	var target *Member

	results := make([]core.Message, 0, len(calls))

	for i, call := range calls {
		if i > 0 {
			results = append(results, core.NewToolResultMessage(call.ID, call.Name,
				"Error: delegate to one agent at a time. This transfer was not executed.", true))

			continue
		}

		agent, ok := tool.TransferTarget(call.Name)
		idx, known := o.index[agent]

		if !ok || !known {
			o.logger.Warn("orchestrator.handoff.unknown", "tool", call.Name)
			results = append(results, core.NewToolResultMessage(call.ID, call.Name,
				fmt.Sprintf("Error: unknown agent for %s. Available agents: %s", call.Name, strings.Join(o.Members(), ", ")), true))

			continue
		}

		target = &o.members[idx]
		results = append(results, core.NewToolResultMessage(call.ID, call.Name, tool.TransferMessage(agent), false))
	}

	return target, results
}

// delegate runs one worker on the current state, merges its filtered output
// and hands control back to the coordinator.
func (o *Orchestrator) delegate(ctx context.Context, r *run, m Member) error {
	ctx, span := o.tracer.Start(ctx, "orchestrator.worker", trace.WithAttributes(
		attribute.String("logimesh.agent", m.Name),
	))
	defer span.End()

	var filtered int

	counted := core.WorkerFunc(func(ctx context.Context, state core.State) (core.State, error) {
		out, err := m.Worker.Process(ctx, state)
		if err == nil {
			filtered = filteredToolResults(state.Messages, out.Messages)
		}

		return out, err
	})

	before := make(map[string]bool, r.state.Len())
	for _, msg := range r.state.Messages {
		before[msg.MessageID()] = true
	}

	o.logger.Info("worker.node.start", "run_id", r.id, "agent", m.Name)

	start := time.Now()
	update, err := core.NewWorkerNode(m.Name, counted)(ctx, r.state)
	duration := time.Since(start)

	metrics.RecordWorker(m.Name, metrics.Status(err), filtered, duration.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logWorker(m.Name, 0, 0, duration, err)

		return &WorkerFailure{Agent: m.Name, Err: err}
	}

	r.state = r.state.Merge(update.Messages)

	produced := make([]core.Message, 0, len(update.Messages))

	for _, msg := range update.Messages {
		if !before[msg.MessageID()] {
			produced = append(produced, msg)
		}
	}

	span.SetAttributes(
		attribute.Int("logimesh.messages_returned", len(produced)),
		attribute.Int("logimesh.tool_results_filtered", filtered),
	)
	o.logWorker(m.Name, len(produced), filtered, duration, nil)

	r.emit(Step{Node: update.Agent, Kind: StepWorker, Messages: produced})
	r.state = r.state.Append(tool.NewTransferBackMessages(m.Name, o.name)...)

	return nil
}

// filteredToolResults counts the tool results a worker added on top of its
// input. A worker that replaces the state with fewer results filtered none.
func filteredToolResults(in, out []core.Message) int {
	return max(core.CountToolResults(out)-core.CountToolResults(in), 0)
}

// workerLogger is implemented by logging.MeshLogger.
type workerLogger interface {
	LogWorkerCall(agent string, returned, filtered int, dur time.Duration, err error)
}

func (o *Orchestrator) logWorker(agent string, returned, filtered int, dur time.Duration, err error) {
	if wl, ok := o.logger.(workerLogger); ok {
		wl.LogWorkerCall(agent, returned, filtered, dur, err)
		return
	}

	if err != nil {
		o.logger.Error("worker.node.failed", "agent", agent, "error", err.Error())
		return
	}

	o.logger.Info("worker.node.completed", "agent", agent, "messages_returned", returned, "tool_results_filtered", filtered)
}

func (o *Orchestrator) toolDefinitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, len(o.members))
	for i, m := range o.members {
		defs[i] = tool.Definition(tool.NewTransferTool(m.Name, m.Description))
	}

	return defs
}
