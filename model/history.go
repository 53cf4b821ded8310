package model

import (
	"fmt"
	"strings"

	"github.com/hupe1980/logimesh/core"
)

// AnsweredToolCalls returns the IDs of all tool invocations in msgs that have
// a matching tool result.
func AnsweredToolCalls(msgs []core.Message) map[string]bool {
	answered := map[string]bool{}

	for _, m := range msgs {
		if tr, ok := m.(core.ToolResultMessage); ok {
			answered[tr.ToolCallID] = true
		}
	}

	return answered
}

// SplitToolCalls separates the invocations of msg into those answered by a
// tool result (sent to the provider as native tool calls) and those whose
// results are absent, typically because a worker's tool output was filtered.
// The latter are summarized as text so the reader still sees which tools ran.
func SplitToolCalls(msg core.AgentMessage, answered map[string]bool) ([]core.ToolInvocation, string) {
	var (
		native []core.ToolInvocation
		names  []string
	)

	for _, tc := range msg.ToolCalls {
		if answered[tc.ID] {
			native = append(native, tc)
			continue
		}

		names = append(names, tc.Name)
	}

	if len(names) == 0 {
		return native, ""
	}

	return native, fmt.Sprintf("[%s called: %s]", authorOr(msg.Author, "agent"), strings.Join(names, ", "))
}

// AgentText renders the text content of msg including the note on
// unanswered tool calls.
func AgentText(msg core.AgentMessage, note string) string {
	switch {
	case note == "":
		return msg.Content
	case msg.Content == "":
		return note
	default:
		return msg.Content + "\n\n" + note
	}
}

func authorOr(author, fallback string) string {
	if author == "" {
		return fallback
	}

	return author
}

// InvokedToolCalls returns the IDs of all tool invocations requested by agent
// messages in msgs. Providers drop tool results whose invocation is absent.
func InvokedToolCalls(msgs []core.Message) map[string]bool {
	invoked := map[string]bool{}

	for _, m := range msgs {
		if am, ok := m.(core.AgentMessage); ok {
			for _, tc := range am.ToolCalls {
				invoked[tc.ID] = true
			}
		}
	}

	return invoked
}
