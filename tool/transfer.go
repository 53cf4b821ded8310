package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/logimesh/core"
)

// TransferPrefix prefixes the name of every handoff tool.
const TransferPrefix = "transfer_to_"

// TransferBackName is the tool name recorded when control returns to the
// coordinator.
const TransferBackName = "transfer_back_to_main_orchestrator"

// transferTool is the handoff tool offered to the coordinator for one worker.
// Calling it only acknowledges the transfer; the coordinator performs the
// actual routing.
type transferTool struct {
	agent       string
	description string
}

// NewTransferTool constructs the handoff tool "transfer_to_<agent>".
func NewTransferTool(agent, description string) Tool {
	return &transferTool{agent: agent, description: description}
}

// TransferToolName returns the handoff tool name for agent.
func TransferToolName(agent string) string { return TransferPrefix + agent }

// TransferTarget extracts the agent name from a handoff tool name.
func TransferTarget(toolName string) (string, bool) {
	if !strings.HasPrefix(toolName, TransferPrefix) {
		return "", false
	}

	agent := strings.TrimPrefix(toolName, TransferPrefix)

	return agent, agent != ""
}

func (t *transferTool) Name() string { return TransferToolName(t.agent) }

func (t *transferTool) Description() string {
	if t.description == "" {
		return fmt.Sprintf("Ask agent '%s' for help", t.agent)
	}

	return fmt.Sprintf("Ask agent '%s' for help. %s", t.agent, t.description)
}

func (t *transferTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *transferTool) Call(_ *core.ToolContext, _ map[string]any) (any, error) {
	return TransferMessage(t.agent), nil
}

// TransferMessage is the tool result content acknowledging a handoff.
func TransferMessage(agent string) string {
	return "Successfully transferred to " + agent
}

// NewTransferBackMessages builds the pair appended after a worker finishes:
// an AgentMessage authored by from that invokes the transfer back tool, and
// the matching ToolResult naming to.
func NewTransferBackMessages(from, to string) []core.Message {
	call := core.ToolInvocation{ID: core.NewID(), Name: TransferBackName, Arguments: "{}"}

	return []core.Message{
		core.NewAgentMessage(from, "Transferring back to "+to, call),
		core.NewToolResultMessage(call.ID, TransferBackName, "Successfully transferred back to "+to, false),
	}
}
