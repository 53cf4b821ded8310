package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/logimesh/core"
)

// ErrMaxSteps is returned when the coordinator exceeds its turn budget.
var ErrMaxSteps = errors.New("coordinator step limit exceeded")

// WorkerFailure terminates a run when a worker returns an error. The
// original error stays reachable through errors.Is and errors.As.
type WorkerFailure struct {
	Agent string
	Err   error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("worker %s failed: %v", e.Agent, e.Err)
}

// Unwrap returns the worker error.
func (e *WorkerFailure) Unwrap() error { return e.Err }

// StepKind tells coordinator and worker steps apart.
type StepKind string

// Step kinds.
const (
	StepCoordinator StepKind = "coordinator"
	StepWorker      StepKind = "worker"
)

// Step is the update produced by one node execution.
type Step struct {
	Index    int            `json:"index"`
	Node     string         `json:"node"`
	Kind     StepKind       `json:"kind"`
	Messages []core.Message `json:"messages"`
	// Final marks the coordinator answer that ends the run.
	Final bool `json:"final,omitempty"`
}

// Content returns the text of the step's last message with content.
func (s Step) Content() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if text := s.Messages[i].Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}

	return ""
}

// Preview returns Content cut to n runes, with "..." when truncated.
func (s Step) Preview(n int) string {
	n = max(n, 0)

	r := []rune(s.Content())
	if len(r) <= n {
		return string(r)
	}

	return string(r[:n]) + "..."
}

// Result is the outcome of a completed run.
type Result struct {
	RunID    string        `json:"run_id"`
	Summary  string        `json:"summary"`
	Steps    []Step        `json:"steps"`
	State    core.State    `json:"-"`
	Duration time.Duration `json:"duration"`
}

// substantialLength is the minimum length of an agent message that counts
// as a summary.
const substantialLength = 50

// FinalSummary returns the coordinator's closing answer. When that answer is
// too short to be a summary it falls back to the last substantial agent
// message of the conversation.
func (r *Result) FinalSummary() string {
	if len(strings.TrimSpace(r.Summary)) > substantialLength {
		return r.Summary
	}

	for i := len(r.State.Messages) - 1; i >= 0; i-- {
		msg, ok := r.State.Messages[i].(core.AgentMessage)
		if ok && len(strings.TrimSpace(msg.Content)) > substantialLength {
			return msg.Content
		}
	}

	return r.Summary
}
