package core

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Kind identifies the variant of a Message.
type Kind int

const (
	// KindHuman marks input authored by the human operator (or a trigger).
	KindHuman Kind = iota
	// KindAgent marks output generated by an LLM-backed agent.
	KindAgent
	// KindToolResult marks the output of a tool invocation.
	KindToolResult
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindHuman:
		return "human"
	case KindAgent:
		return "agent"
	case KindToolResult:
		return "tool_result"
	default:
		return "unknown"
	}
}

// Message is one entry of a conversation. The set of implementations is
// closed: HumanMessage, AgentMessage and ToolResultMessage. The variant is
// fixed at construction time and inspected through Kind or a type switch.
type Message interface {
	// MessageID returns the stable identifier used when merging states.
	MessageID() string
	// Kind returns the variant tag.
	Kind() Kind
	// Text returns the textual payload.
	Text() string

	isMessage()
}

// NewID returns a new random identifier.
func NewID() string { return uuid.NewString() }

// HumanMessage is input authored by the operator.
type HumanMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// NewHumanMessage creates a human message with a fresh ID.
func NewHumanMessage(content string) HumanMessage {
	return HumanMessage{ID: NewID(), Content: content}
}

// MessageID implements Message.
func (m HumanMessage) MessageID() string { return m.ID }

// Kind implements Message.
func (HumanMessage) Kind() Kind { return KindHuman }

// Text implements Message.
func (m HumanMessage) Text() string { return m.Content }

func (HumanMessage) isMessage() {}

// ToolInvocation is a tool call requested by an agent.
type ToolInvocation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // JSON object
}

// DecodeArguments unmarshals the JSON argument object. An empty payload
// decodes to an empty map.
func (ti ToolInvocation) DecodeArguments() (map[string]any, error) {
	args := map[string]any{}
	if ti.Arguments == "" {
		return args, nil
	}

	if err := json.Unmarshal([]byte(ti.Arguments), &args); err != nil {
		return nil, err
	}

	return args, nil
}

// AgentMessage is output generated by an agent. It may carry tool invocations.
type AgentMessage struct {
	ID        string           `json:"id"`
	Author    string           `json:"author,omitempty"`
	Content   string           `json:"content"`
	ToolCalls []ToolInvocation `json:"tool_calls,omitempty"`
}

// NewAgentMessage creates an agent message with a fresh ID.
func NewAgentMessage(author, content string, calls ...ToolInvocation) AgentMessage {
	return AgentMessage{ID: NewID(), Author: author, Content: content, ToolCalls: calls}
}

// MessageID implements Message.
func (m AgentMessage) MessageID() string { return m.ID }

// Kind implements Message.
func (AgentMessage) Kind() Kind { return KindAgent }

// Text implements Message.
func (m AgentMessage) Text() string { return m.Content }

func (AgentMessage) isMessage() {}

// HasToolCalls reports whether the message requests any tool invocation.
func (m AgentMessage) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// ToolResultMessage carries the output of a tool invocation.
type ToolResultMessage struct {
	ID         string `json:"id"`
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// NewToolResultMessage creates a tool result answering the invocation callID.
func NewToolResultMessage(callID, toolName, content string, isError bool) ToolResultMessage {
	return ToolResultMessage{ID: NewID(), ToolCallID: callID, ToolName: toolName, Content: content, IsError: isError}
}

// MessageID implements Message.
func (m ToolResultMessage) MessageID() string { return m.ID }

// Kind implements Message.
func (ToolResultMessage) Kind() Kind { return KindToolResult }

// Text implements Message.
func (m ToolResultMessage) Text() string { return m.Content }

func (ToolResultMessage) isMessage() {}
