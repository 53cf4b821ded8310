package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record exists for an id.
	ErrNotFound = errors.New("run record not found")
	// ErrInvalidID is returned for an empty record id.
	ErrInvalidID = errors.New("invalid run id")
)

// Status is the lifecycle state of a run.
type Status string

// Run statuses.
const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Done reports whether the run has ended.
func (s Status) Done() bool { return s != StatusRunning }

// StepRecord is the persisted form of one orchestrator step.
type StepRecord struct {
	Index   int    `json:"index"`
	Node    string `json:"node"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Record is the history entry of one run.
type Record struct {
	ID         string       `json:"id"`
	ScenarioID int          `json:"scenario_id"`
	Status     Status       `json:"status"`
	Summary    string       `json:"summary,omitempty"`
	Error      string       `json:"error,omitempty"`
	Steps      []StepRecord `json:"steps"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// NewRecord creates a running record for scenarioID.
func NewRecord(id string, scenarioID int) *Record {
	return &Record{
		ID:         id,
		ScenarioID: scenarioID,
		Status:     StatusRunning,
		Steps:      []StepRecord{},
		StartedAt:  time.Now().UTC(),
	}
}

// Finish marks the record as ended with status. A non-nil err is stored as
// the record error.
func (r *Record) Finish(status Status, summary string, err error) {
	now := time.Now().UTC()

	r.Status = status
	r.Summary = summary
	r.FinishedAt = &now

	if err != nil {
		r.Error = err.Error()
	}
}

// Duration returns the run time so far, or the total run time once finished.
func (r *Record) Duration() time.Duration {
	if r.FinishedAt == nil {
		return time.Since(r.StartedAt)
	}

	return r.FinishedAt.Sub(r.StartedAt)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.Steps = append([]StepRecord{}, r.Steps...)

	if r.FinishedAt != nil {
		t := *r.FinishedAt
		c.FinishedAt = &t
	}

	return &c
}

// Store persists run records.
type Store interface {
	// Save creates or replaces a record.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record with id or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns all records, most recently started first.
	List(ctx context.Context) ([]*Record, error)
}
