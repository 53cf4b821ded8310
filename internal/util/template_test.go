package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars map[string]any
		want string
	}{
		{name: "plain", text: "no actions", want: "no actions"},
		{name: "variable", text: "Scenario {{.scenario_id}}", vars: map[string]any{"scenario_id": 3}, want: "Scenario 3"},
		{name: "missing renders empty", text: "dir={{.scenario_dir}}.", want: "dir=."},
		{name: "missing is false", text: "{{if .scenario_dir}}set{{else}}unset{{end}}", want: "unset"},
		{name: "default", text: `{{default "n/a" .severity}}`, want: "n/a"},
		{name: "upper", text: "{{upper .level}}", vars: map[string]any{"level": "high"}, want: "HIGH"},
		{name: "join", text: `{{join ", " .agents}}`, vars: map[string]any{"agents": []string{"route_planner", "cost_optimizer"}}, want: "route_planner, cost_optimizer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate(tt.text, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTemplate_DoesNotMutateVars(t *testing.T) {
	vars := map[string]any{"a": 1}

	_, err := RenderTemplate("{{.a}}{{.b}}", vars)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, vars)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.unterminated", nil)
	assert.Error(t, err)
}
