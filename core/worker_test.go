package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWorker struct {
	mock.Mock
}

func (m *mockWorker) Process(ctx context.Context, state State) (State, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(State), args.Error(1)
}

func TestNewWorkerNode_FiltersAndTags(t *testing.T) {
	human := NewHumanMessage("a")
	summary := NewAgentMessage("inventory_manager", "summary")
	in := NewState(human)

	w := new(mockWorker)
	w.On("Process", mock.Anything, in).Return(NewState(
		human,
		NewToolResultMessage("call-1", "check_stock_levels", "data", false),
		summary,
	), nil).Once()

	node := NewWorkerNode("inventory_manager", w)

	upd, err := node(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "inventory_manager", upd.Agent)
	assert.Equal(t, []Message{human, summary}, upd.Messages)
	w.AssertExpectations(t)
}

func TestNewWorkerNode_PropagatesErrorUnchanged(t *testing.T) {
	boom := errors.New("llm unavailable")

	w := new(mockWorker)
	w.On("Process", mock.Anything, mock.Anything).Return(State{}, boom).Once()

	node := NewWorkerNode("route_planner", w)

	upd, err := node(context.Background(), NewState(NewHumanMessage("go")))
	assert.Same(t, boom, err)
	assert.Empty(t, upd.Agent)
	assert.Empty(t, upd.Messages)
	w.AssertNumberOfCalls(t, "Process", 1)
}

func TestNewWorkerNode_EmptyOutput(t *testing.T) {
	// A worker that produced nothing and one that produced only tool results
	// are indistinguishable after filtering.
	onlyTools := NewWorkerNode("w", WorkerFunc(func(context.Context, State) (State, error) {
		return NewState(NewToolResultMessage("c", "t", "r", false)), nil
	}))
	nothing := NewWorkerNode("w", WorkerFunc(func(context.Context, State) (State, error) {
		return State{}, nil
	}))

	a, err := onlyTools(context.Background(), State{})
	require.NoError(t, err)

	b, err := nothing(context.Background(), State{})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, []Message{}, a.Messages)
}

func TestFilterWorker(t *testing.T) {
	agent := NewAgentMessage("w", "done")
	w := FilterWorker(WorkerFunc(func(_ context.Context, s State) (State, error) {
		return s.Append(NewToolResultMessage("c", "t", "r", false), agent), nil
	}))

	human := NewHumanMessage("hi")
	out, err := w.Process(context.Background(), NewState(human))
	require.NoError(t, err)
	assert.Equal(t, []Message{human, agent}, out.Messages)
}
