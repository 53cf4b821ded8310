package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/logimesh/core"
	"gopkg.in/yaml.v3"
)

// ScriptTurn is one scripted model response.
type ScriptTurn struct {
	Text      string           `yaml:"text,omitempty"`
	ToolCalls []ScriptToolCall `yaml:"tool_calls,omitempty"`
	Error     string           `yaml:"error,omitempty"`
}

// ScriptToolCall is a scripted tool invocation.
type ScriptToolCall struct {
	Name      string         `yaml:"name"`
	Arguments map[string]any `yaml:"arguments,omitempty"`
}

// Script maps an agent name to its scripted turns. It backs the offline
// "mock" provider.
type Script map[string][]ScriptTurn

// LoadScript reads a YAML script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	return ParseScript(data)
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	return s, nil
}

// Model returns a ScriptedModel replaying the turns of agent. Once the turns
// are used up the model answers with a short closing text.
func (s Script) Model(agent string) (*ScriptedModel, error) {
	m := NewScriptedModel("mock-" + agent)

	for i, turn := range s[agent] {
		switch {
		case turn.Error != "":
			m.Fail(errors.New(turn.Error))
		case len(turn.ToolCalls) > 0:
			calls := make([]core.ToolInvocation, 0, len(turn.ToolCalls))
			for _, tc := range turn.ToolCalls {
				args := "{}"
				if len(tc.Arguments) > 0 {
					b, err := json.Marshal(tc.Arguments)
					if err != nil {
						return nil, fmt.Errorf("script %s turn %d: %w", agent, i, err)
					}

					args = string(b)
				}

				calls = append(calls, core.ToolInvocation{ID: core.NewID(), Name: tc.Name, Arguments: args})
			}

			m.push(scriptedStep{msg: core.NewAgentMessage("", turn.Text, calls...)})
		default:
			m.Reply(turn.Text)
		}
	}

	m.Fallback(func(Request) core.AgentMessage {
		return core.NewAgentMessage("", fmt.Sprintf("%s has nothing further to add.", agent))
	})

	return m, nil
}
