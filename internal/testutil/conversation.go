package testutil

import (
	"fmt"

	"github.com/hupe1980/logimesh/core"
)

// ConversationBuilder provides a fluent helper for constructing message
// sequences in tests.
// Example:
//
//	msgs := testutil.NewConversation().Human("alert").Call("w", "check_stock_levels").Result("rows").Agent("w", "done").Messages()
//
// Result pairs with the most recent Call so tool call IDs line up.
type ConversationBuilder struct {
	msgs     []core.Message
	lastCall core.ToolInvocation
	seq      int
}

// NewConversation creates an empty builder.
func NewConversation() *ConversationBuilder { return &ConversationBuilder{} }

// Human appends a human message (chainable).
func (b *ConversationBuilder) Human(content string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewHumanMessage(content))
	return b
}

// Agent appends a plain agent reply (chainable).
func (b *ConversationBuilder) Agent(author, content string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewAgentMessage(author, content))
	return b
}

// Call appends an agent message requesting toolName with optional JSON
// arguments (chainable). Call IDs are deterministic: call-1, call-2, ...
func (b *ConversationBuilder) Call(author, toolName string, args ...string) *ConversationBuilder {
	b.seq++

	inv := core.ToolInvocation{ID: fmt.Sprintf("call-%d", b.seq), Name: toolName, Arguments: "{}"}
	if len(args) > 0 {
		inv.Arguments = args[0]
	}

	b.lastCall = inv
	b.msgs = append(b.msgs, core.NewAgentMessage(author, "", inv))

	return b
}

// Result appends a successful tool result answering the most recent Call (chainable).
func (b *ConversationBuilder) Result(content string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewToolResultMessage(b.lastCall.ID, b.lastCall.Name, content, false))
	return b
}

// Failure appends an error tool result answering the most recent Call (chainable).
func (b *ConversationBuilder) Failure(content string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewToolResultMessage(b.lastCall.ID, b.lastCall.Name, content, true))
	return b
}

// Messages returns a copy of the built sequence.
func (b *ConversationBuilder) Messages() []core.Message {
	return append([]core.Message(nil), b.msgs...)
}

// State wraps the built sequence in a core.State.
func (b *ConversationBuilder) State() core.State {
	return core.NewState(b.Messages()...)
}
