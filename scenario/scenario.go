// Package scenario loads the mock logistics scenarios: the scenario index,
// each scenario's trigger event and the alert message handed to the
// coordinator.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidID is returned for ids outside the known scenario set.
	ErrInvalidID = errors.New("invalid scenario id")
	// ErrNotFound is returned when scenario data is missing on disk.
	ErrNotFound = errors.New("scenario data not found")
)

// Dirs maps scenario ids to their directory under the data dir.
var Dirs = map[int]string{
	1: "scenario_1_low_inventory",
	2: "scenario_2_route_disruption",
	3: "scenario_3_demand_spike",
	4: "scenario_4_cost_optimization",
	5: "scenario_5_supplier_issues",
	6: "scenario_6_distribution_delays",
}

// IDs returns the known scenario ids in ascending order.
func IDs() []int {
	ids := make([]int, 0, len(Dirs))
	for id := range Dirs {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// DirFor returns the directory name of scenario id.
func DirFor(id int) (string, error) {
	dir, ok := Dirs[id]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	return dir, nil
}

// ParseID parses a user supplied scenario id.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	if _, err := DirFor(id); err != nil {
		return 0, err
	}

	return id, nil
}

// Info is one row of scenario_index.csv.
type Info struct {
	ID            int    `json:"id"`
	Dir           string `json:"dir"`
	Name          string `json:"name"`
	Complexity    string `json:"complexity"`
	Severity      string `json:"severity"`
	PrimaryAgents string `json:"primary_agents"`
	KeyMetrics    string `json:"key_metrics"`
}

// Summary renders the index entry as shown before a run.
func (i Info) Summary() string {
	return fmt.Sprintf("Scenario %d: %s\nComplexity: %s\nSeverity: %s\nPrimary Agents: %s\nKey Metrics: %s",
		i.ID, i.Name, i.Complexity, i.Severity, i.PrimaryAgents, i.KeyMetrics)
}

// Trigger is the first row of a scenario's trigger_event.csv, extended with
// the scenario it belongs to.
type Trigger struct {
	ScenarioID  int               `json:"scenario_id"`
	ScenarioDir string            `json:"scenario_dir"`
	EventType   string            `json:"event_type"`
	Severity    string            `json:"severity"`
	Description string            `json:"description"`
	Fields      map[string]string `json:"fields,omitempty"` // every column of the row
}

// Scenario is a fully loaded scenario ready to run.
type Scenario struct {
	ID      int     `json:"id"`
	Dir     string  `json:"dir"`
	Trigger Trigger `json:"trigger"`
	Message string  `json:"message"`
	Summary string  `json:"summary,omitempty"`
}

// FormatTriggerMessage renders the alert handed to the coordinator.
func FormatTriggerMessage(t Trigger) string {
	eventType := orDefault(t.EventType, "UNKNOWN")
	severity := orDefault(t.Severity, "UNKNOWN")
	description := orDefault(t.Description, "No description available")

	var b strings.Builder

	b.WriteString("LOGISTICS SCENARIO ALERT\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(&b, "Event Type: %s\n", eventType)
	fmt.Fprintf(&b, "Severity: %s\n", severity)
	fmt.Fprintf(&b, "Scenario: %s\n\n", t.ScenarioDir)
	fmt.Fprintf(&b, "Description:\n%s\n\n", description)
	b.WriteString("Please analyze this situation and coordinate the appropriate agents to handle it.\n")
	b.WriteString("Provide a comprehensive response including:\n")
	b.WriteString("1. Analysis of the issue\n")
	b.WriteString("2. Actions taken by each consulted agent\n")
	b.WriteString("3. Overall recommendations and next steps")

	return strings.TrimSpace(b.String())
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}

	return v
}
