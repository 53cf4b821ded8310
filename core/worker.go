package core

import "context"

// Worker transforms a conversation state into a new one. Implementations
// typically run an LLM with tools and return the input messages followed by
// everything they produced, tool results included.
type Worker interface {
	Process(ctx context.Context, state State) (State, error)
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context, state State) (State, error)

// Process calls f(ctx, state).
func (f WorkerFunc) Process(ctx context.Context, state State) (State, error) {
	return f(ctx, state)
}

// FilterWorker wraps w so that tool results are removed from its output.
// Errors from w are returned as is.
func FilterWorker(w Worker) Worker {
	return WorkerFunc(func(ctx context.Context, state State) (State, error) {
		out, err := w.Process(ctx, state)
		if err != nil {
			return State{}, err
		}

		return State{Messages: FilterToolResults(out.Messages)}, nil
	})
}

// Update is the output of a worker node: the filtered message sequence keyed
// by the agent that produced it.
type Update struct {
	Agent    string    `json:"agent"`
	Messages []Message `json:"messages"`
}

// Node is a unit of work invoked by the coordinator.
type Node func(ctx context.Context, state State) (Update, error)

// NewWorkerNode wraps w as a coordinator node named name. The node runs w on
// the current state, drops tool results from the returned messages and tags
// them with name. A worker error is returned unchanged, without retry and
// without a partial update.
func NewWorkerNode(name string, w Worker) Node {
	filtered := FilterWorker(w)

	return func(ctx context.Context, state State) (Update, error) {
		out, err := filtered.Process(ctx, state)
		if err != nil {
			return Update{}, err
		}

		return Update{Agent: name, Messages: out.Messages}, nil
	}
}
