package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Append(t *testing.T) {
	a := NewHumanMessage("a")
	b := NewAgentMessage("w", "b")

	s := NewState(a)
	s2 := s.Append(b)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []Message{a, b}, s2.Messages)

	last, ok := s2.Last()
	assert.True(t, ok)
	assert.Equal(t, b, last)

	_, ok = State{}.Last()
	assert.False(t, ok)
}

func TestState_AppendDoesNotAlias(t *testing.T) {
	base := State{Messages: make([]Message, 0, 8)}
	base.Messages = append(base.Messages, NewHumanMessage("a"))

	x := base.Append(NewAgentMessage("x", "x"))
	y := base.Append(NewAgentMessage("y", "y"))

	assert.Equal(t, "x", x.Messages[1].Text())
	assert.Equal(t, "y", y.Messages[1].Text())
}

func TestState_Merge(t *testing.T) {
	human := NewHumanMessage("trigger")
	call := NewAgentMessage("orchestrator", "", ToolInvocation{ID: "c1", Name: "transfer_to_route_planner"})
	reply := NewAgentMessage("route_planner", "routes look fine")

	s := NewState(human, call)

	t.Run("appends new ids", func(t *testing.T) {
		got := s.Merge([]Message{human, call, reply})
		assert.Equal(t, []Message{human, call, reply}, got.Messages)
	})

	t.Run("replaces existing ids in place", func(t *testing.T) {
		edited := HumanMessage{ID: human.ID, Content: "edited"}
		got := s.Merge([]Message{edited})
		assert.Equal(t, []Message{edited, call}, got.Messages)
	})

	t.Run("empty update keeps state", func(t *testing.T) {
		got := s.Merge(nil)
		assert.Equal(t, s.Messages, got.Messages)
	})

	t.Run("receiver untouched", func(t *testing.T) {
		_ = s.Merge([]Message{reply})
		assert.Equal(t, 2, s.Len())
	})
}
