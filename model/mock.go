package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/logimesh/core"
)

// ScriptedModel is a deterministic in-memory Model useful for tests and
// offline demos. Each Generate call pops the next scripted step. Requests are
// recorded for later inspection.
type ScriptedModel struct {
	info Info

	mu       sync.Mutex
	steps    []scriptedStep
	requests []Request
	fallback func(req Request) core.AgentMessage
}

type scriptedStep struct {
	msg core.AgentMessage
	err error
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info: Info{Name: name, Provider: "mock", SupportsTools: true},
	}
}

// Reply queues a text-only response.
func (m *ScriptedModel) Reply(text string) *ScriptedModel {
	return m.push(scriptedStep{msg: core.NewAgentMessage("", text)})
}

// CallTool queues a response requesting a single tool invocation.
func (m *ScriptedModel) CallTool(name, arguments string) *ScriptedModel {
	return m.CallTools(core.ToolInvocation{ID: core.NewID(), Name: name, Arguments: arguments})
}

// CallTools queues a response requesting several tool invocations.
func (m *ScriptedModel) CallTools(calls ...core.ToolInvocation) *ScriptedModel {
	return m.push(scriptedStep{msg: core.NewAgentMessage("", "", calls...)})
}

// Fail queues an error.
func (m *ScriptedModel) Fail(err error) *ScriptedModel {
	return m.push(scriptedStep{err: err})
}

// Fallback sets the generator used once the script is exhausted. Without a
// fallback an exhausted script is an error.
func (m *ScriptedModel) Fallback(fn func(req Request) core.AgentMessage) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fallback = fn

	return m
}

func (m *ScriptedModel) push(s scriptedStep) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.steps = append(m.steps, s)

	return m
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Request{}, m.requests...)
}

// Remaining returns the number of unconsumed scripted steps.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.steps)
}

func (m *ScriptedModel) next(req Request) (core.AgentMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.steps) == 0 {
		if m.fallback != nil {
			return m.fallback(req), nil
		}

		return core.AgentMessage{}, fmt.Errorf("scripted model %q: script exhausted", m.info.Name)
	}

	s := m.steps[0]
	m.steps = m.steps[1:]

	if s.err != nil {
		return core.AgentMessage{}, s.err
	}

	// Fresh IDs so a step reused across runs never collides on merge.
	msg := s.msg
	msg.ID = core.NewID()

	return msg, nil
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}

		msg, err := m.next(req)
		if err != nil {
			errCh <- err
			return
		}

		finish := "stop"
		if msg.HasToolCalls() {
			finish = "tool_calls"
		}

		respCh <- Response{ID: core.NewID(), Message: msg, FinishReason: finish}
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *ScriptedModel) Info() Info { return m.info }
