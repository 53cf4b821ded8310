package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scenario_index.csv"),
		"scenario_id,scenario_name,complexity,severity,primary_agents,key_metrics\n"+
			"1,Low Inventory,Medium,HIGH,\"inventory_manager, procurement_manager\",days_until_stockout\n"+
			"2,Route Disruption,High,CRITICAL,route_planner,delay_minutes\n"+
			"9,Bogus,Low,LOW,none,none\n")
	writeFile(t, filepath.Join(dir, "scenario_1_low_inventory", "trigger_event.csv"),
		"event_type,severity,description,timestamp\n"+
			"LOW_INVENTORY,HIGH,\"Three SKUs are below reorder point.\",2024-03-01\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenario_2_route_disruption"), 0o755))

	return dir
}

func TestDirsAndIDs(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, IDs())

	dir, err := DirFor(6)
	require.NoError(t, err)
	assert.Equal(t, "scenario_6_distribution_delays", dir)

	_, err = DirFor(7)
	assert.ErrorIs(t, err, ErrInvalidID)

	id, err := ParseID(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = ParseID("abc")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = ParseID("0")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestFormatTriggerMessage(t *testing.T) {
	msg := FormatTriggerMessage(Trigger{
		ScenarioDir: "scenario_1_low_inventory",
		EventType:   "LOW_INVENTORY",
		Severity:    "HIGH",
		Description: "Stock is low.",
	})

	want := "LOGISTICS SCENARIO ALERT\n" +
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n" +
		"Event Type: LOW_INVENTORY\n" +
		"Severity: HIGH\n" +
		"Scenario: scenario_1_low_inventory\n\n" +
		"Description:\n" +
		"Stock is low.\n\n" +
		"Please analyze this situation and coordinate the appropriate agents to handle it.\n" +
		"Provide a comprehensive response including:\n" +
		"1. Analysis of the issue\n" +
		"2. Actions taken by each consulted agent\n" +
		"3. Overall recommendations and next steps"

	assert.Equal(t, want, msg)
}

func TestFormatTriggerMessage_Defaults(t *testing.T) {
	msg := FormatTriggerMessage(Trigger{})

	assert.Contains(t, msg, "Event Type: UNKNOWN\n")
	assert.Contains(t, msg, "Severity: UNKNOWN\n")
	assert.Contains(t, msg, "Description:\nNo description available\n")
}

func TestLoader_Index(t *testing.T) {
	l := NewLoader(newDataDir(t))

	infos, err := l.Index()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "Low Inventory", infos[0].Name)
	assert.Equal(t, "scenario_1_low_inventory", infos[0].Dir)
	assert.Equal(t, "inventory_manager, procurement_manager", infos[0].PrimaryAgents)

	summary, err := l.Summary(1)
	require.NoError(t, err)
	assert.Equal(t, "Scenario 1: Low Inventory\nComplexity: Medium\nSeverity: HIGH\nPrimary Agents: inventory_manager, procurement_manager\nKey Metrics: days_until_stockout", summary)

	_, err = l.Info(3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewLoader(t.TempDir()).Index()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_Validate(t *testing.T) {
	l := NewLoader(newDataDir(t))

	assert.NoError(t, l.Validate(1))
	assert.ErrorIs(t, l.Validate(2), ErrNotFound) // no trigger file
	assert.ErrorIs(t, l.Validate(3), ErrNotFound) // no directory
	assert.ErrorIs(t, l.Validate(42), ErrInvalidID)
}

func TestLoader_Load(t *testing.T) {
	l := NewLoader(newDataDir(t))

	sc, err := l.Load(1)
	require.NoError(t, err)

	assert.Equal(t, 1, sc.ID)
	assert.Equal(t, "scenario_1_low_inventory", sc.Dir)
	assert.Equal(t, "LOW_INVENTORY", sc.Trigger.EventType)
	assert.Equal(t, "2024-03-01", sc.Trigger.Fields["timestamp"])
	assert.Contains(t, sc.Message, "Scenario: scenario_1_low_inventory")
	assert.Contains(t, sc.Summary, "Scenario 1: Low Inventory")

	_, err = l.Load(2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_LoadWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scenario_4_cost_optimization", "trigger_event.csv"), "event_type\nCOST_OVERRUN\n")

	sc, err := NewLoader(dir).Load(4)
	require.NoError(t, err)
	assert.Empty(t, sc.Summary)
	assert.Contains(t, sc.Message, "Severity: UNKNOWN")
}

func TestLoader_EmptyTrigger(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scenario_5_supplier_issues", "trigger_event.csv"), "event_type,severity\n")

	_, err := NewLoader(dir).Trigger(5)
	assert.ErrorIs(t, err, ErrNotFound)
}
