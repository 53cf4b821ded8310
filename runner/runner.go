package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/orchestrator"
	"github.com/hupe1980/logimesh/session"
)

var (
	// ErrBusy is returned when the concurrent run limit is reached.
	ErrBusy = errors.New("too many concurrent runs")
	// ErrRunNotFound is returned by Cancel for an unknown or finished run.
	ErrRunNotFound = errors.New("run not found")
)

// Executor runs one scenario to completion. *logimesh.Mesh implements it.
type Executor interface {
	RunScenario(ctx context.Context, id int, observe func(orchestrator.Step)) (*orchestrator.Result, error)
}

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// MaxConcurrentRuns limits concurrently executing runs; 0 is unlimited.
	MaxConcurrentRuns int
	// StepBufferSize sets channel buffering for streamed steps.
	StepBufferSize int
	// Store persists run records.
	Store session.Store
	// Logger receives lifecycle events.
	Logger logging.Logger
}

// Runner coordinates scenario runs. Public methods are safe for concurrent
// use.
type Runner struct {
	exec Executor

	maxConcurrentRuns int
	stepBufferSize    int
	store             session.Store
	logger            logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(exec Executor, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxConcurrentRuns: 4,
		StepBufferSize:    100,
		Store:             session.NewInMemoryStore(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		exec:              exec,
		maxConcurrentRuns: opts.MaxConcurrentRuns,
		stepBufferSize:    opts.StepBufferSize,
		store:             opts.Store,
		logger:            logging.OrNoOp(opts.Logger),
		activeRuns:        make(map[string]context.CancelFunc),
	}
}

// Store returns the run history store.
func (r *Runner) Store() session.Store { return r.store }

// Run starts scenarioID asynchronously and returns the run id plus the step
// and error channels. The caller must drain the step channel; cancelling ctx
// stops the run. Both channels are closed once the record has been
// persisted.
func (r *Runner) Run(ctx context.Context, scenarioID int) (string, <-chan orchestrator.Step, <-chan error, error) {
	runID := core.NewID()

	ctx, cancel := context.WithCancel(ctx)

	if err := r.register(runID, cancel); err != nil {
		cancel()
		return "", nil, nil, err
	}

	rec := session.NewRecord(runID, scenarioID)
	if err := r.store.Save(ctx, rec); err != nil {
		r.unregister(runID)
		cancel()

		return "", nil, nil, fmt.Errorf("failed to save run record: %w", err)
	}

	stepsCh := make(chan orchestrator.Step, r.stepBufferSize)
	errorsCh := make(chan error, 1)

	r.logger.Info("runner.run.start", "run_id", runID, "scenario_id", scenarioID)

	go func() {
		defer func() {
			r.unregister(runID)
			cancel()
			close(stepsCh)
			close(errorsCh)
		}()

		res, err := r.exec.RunScenario(ctx, scenarioID, func(s orchestrator.Step) {
			rec.Steps = append(rec.Steps, session.StepRecord{
				Index:   s.Index,
				Node:    s.Node,
				Kind:    string(s.Kind),
				Content: s.Content(),
			})

			r.save(ctx, rec)

			select {
			case <-ctx.Done():
			case stepsCh <- s:
			}
		})

		r.finish(rec, res, err)

		if err != nil {
			errorsCh <- err
		}
	}()

	return runID, stepsCh, errorsCh, nil
}

// Submit starts scenarioID detached from ctx's cancellation and discards the
// stream. Progress is observable through the store.
func (r *Runner) Submit(ctx context.Context, scenarioID int) (string, error) {
	runID, stepsCh, errorsCh, err := r.Run(context.WithoutCancel(ctx), scenarioID)
	if err != nil {
		return "", err
	}

	go func() {
		for range stepsCh {
		}

		<-errorsCh
	}()

	return runID, nil
}

// Cancel cancels a running run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[runID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	cancel()

	return nil
}

// Active returns the ids of the runs in flight, sorted.
func (r *Runner) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.activeRuns))
	for id := range r.activeRuns {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func (r *Runner) register(runID string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxConcurrentRuns > 0 && len(r.activeRuns) >= r.maxConcurrentRuns {
		return ErrBusy
	}

	r.activeRuns[runID] = cancel

	return nil
}

func (r *Runner) unregister(runID string) {
	r.mu.Lock()
	delete(r.activeRuns, runID)
	r.mu.Unlock()
}

func (r *Runner) finish(rec *session.Record, res *orchestrator.Result, err error) {
	switch {
	case err == nil:
		rec.Finish(session.StatusCompleted, res.FinalSummary(), nil)
		r.logger.Info("runner.run.complete", "run_id", rec.ID, "steps", len(rec.Steps))
	case errors.Is(err, context.Canceled):
		rec.Finish(session.StatusCancelled, "", err)
		r.logger.Warn("runner.run.cancelled", "run_id", rec.ID)
	default:
		rec.Finish(session.StatusFailed, "", err)
		r.logger.Error("runner.run.failed", "run_id", rec.ID, "error", err.Error())
	}

	// The run context may already be cancelled; the final record must land.
	r.save(context.Background(), rec)
}

func (r *Runner) save(ctx context.Context, rec *session.Record) {
	if err := r.store.Save(ctx, rec); err != nil {
		r.logger.Warn("runner.record.save_failed", "run_id", rec.ID, "error", err.Error())
	}
}
