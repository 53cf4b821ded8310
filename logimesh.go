// Package logimesh provides a high-level façade wiring the logistics
// multi-agent system together: configuration, model provider, the six
// logistics workers and the coordinating orchestrator. Most applications
// interact with this package by:
//  1. Loading a config.Config (config.Load)
//  2. Creating a Mesh via New()
//  3. Running scenarios synchronously (RunScenario) or through a
//     runner.Runner for asynchronous, persisted runs
//
// Agents are built per run, so scripted mock models always replay from the
// start while real providers share one rate limited client.
package logimesh

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/logimesh/config"
	"github.com/hupe1980/logimesh/flow"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/logistics"
	"github.com/hupe1980/logimesh/model/provider"
	"github.com/hupe1980/logimesh/orchestrator"
	"github.com/hupe1980/logimesh/scenario"
)

// Options configures the Mesh instance.
type Options struct {
	// Models overrides the provider built from the config. Useful in tests.
	Models logistics.ModelSource

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// TracerProvider for orchestrator spans; the global provider if nil.
	TracerProvider trace.TracerProvider
}

// Mesh is the high-level façade aggregating scenario data, models and the
// orchestrator. It is safe for concurrent use.
type Mesh struct {
	cfg    *config.Config
	models logistics.ModelSource
	loader *scenario.Loader
	data   *logistics.Data
	logger logging.Logger
	tp     trace.TracerProvider
}

// New validates cfg and creates a Mesh.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Mesh, error) {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	models := opts.Models
	if models == nil {
		factory, err := provider.New(cfg, logger)
		if err != nil {
			return nil, err
		}

		models = factory
	}

	m := &Mesh{
		cfg:    cfg,
		models: models,
		loader: scenario.NewLoader(cfg.DataDir, func(o *scenario.LoaderOptions) { o.Logger = logger }),
		data:   logistics.NewData(cfg.DataDir),
		logger: logger,
		tp:     opts.TracerProvider,
	}

	// Fail fast on model construction errors.
	if _, err := m.orchestrator(); err != nil {
		return nil, err
	}

	return m, nil
}

// Config returns the configuration the mesh was built from.
func (m *Mesh) Config() *config.Config { return m.cfg }

// Loader returns the scenario loader.
func (m *Mesh) Loader() *scenario.Loader { return m.loader }

// Scenarios returns the scenario index.
func (m *Mesh) Scenarios() ([]scenario.Info, error) { return m.loader.Index() }

// Scenario validates and loads scenario id.
func (m *Mesh) Scenario(id int) (*scenario.Scenario, error) { return m.loader.Load(id) }

// Graph renders the coordinator / worker topology as a Mermaid flowchart.
func (m *Mesh) Graph() (string, error) {
	o, err := m.orchestrator()
	if err != nil {
		return "", err
	}

	return o.Graph(), nil
}

// RunScenario loads scenario id and runs its alert through the orchestrator.
// observe, when non-nil, receives every step as it happens.
func (m *Mesh) RunScenario(ctx context.Context, id int, observe func(orchestrator.Step)) (*orchestrator.Result, error) {
	sc, err := m.loader.Load(id)
	if err != nil {
		return nil, err
	}

	o, err := m.orchestrator()
	if err != nil {
		return nil, err
	}

	ctx = flow.WithTemplateVars(ctx, map[string]any{
		"scenario_id":  sc.ID,
		"scenario_dir": sc.Dir,
	})

	m.logger.Info("scenario.run.start", "scenario_id", sc.ID, "scenario", sc.Dir, "event_type", sc.Trigger.EventType)

	return o.Run(ctx, sc.Message, observe)
}

func (m *Mesh) orchestrator() (*orchestrator.Orchestrator, error) {
	agents, err := logistics.NewAgents(m.models, m.data, func(o *logistics.AgentOptions) {
		o.MaxIterations = m.cfg.MaxWorkerIterations
		o.Logger = m.logger
	})
	if err != nil {
		return nil, err
	}

	members := make([]orchestrator.Member, len(agents))
	for i, a := range agents {
		members[i] = orchestrator.Member{Name: a.Name(), Description: a.Description(), Worker: a}
	}

	llm, err := m.models.Model(logistics.CoordinatorName)
	if err != nil {
		return nil, fmt.Errorf("model for %s: %w", logistics.CoordinatorName, err)
	}

	return orchestrator.New(llm, members, func(o *orchestrator.Options) {
		o.Name = logistics.CoordinatorName
		o.Instruction = logistics.CoordinatorPrompt
		o.MaxSteps = m.cfg.MaxSteps
		o.Logger = m.logger
		o.TracerProvider = m.tp
	})
}
