package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type orderArgs struct {
	ScenarioDir string      `json:"scenario_dir" description:"Scenario directory name"`
	Lines       []orderLine `json:"lines"`
	Express     *bool       `json:"express"`
	Note        string      `json:"-"`
}

func TestCreateSchema_Nested(t *testing.T) {
	schema := CreateSchema(&orderArgs{})

	props := schema["properties"].(map[string]any)
	assert.NotContains(t, props, "Note")
	assert.Equal(t, []string{"scenario_dir", "lines"}, schema["required"])

	lines := props["lines"].(map[string]any)
	assert.Equal(t, "array", lines["type"])

	items := lines["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	assert.Equal(t, []string{"product_id", "quantity"}, items["required"])
	assert.Equal(t, "boolean", props["express"].(map[string]any)["type"])
}

func TestValidateParameters_Nested(t *testing.T) {
	schema := CreateSchema(orderArgs{})

	ok := map[string]any{
		"scenario_dir": "scenario_5_supplier_issues",
		"lines":        []any{map[string]any{"product_id": "P-5001", "quantity": 100}},
	}
	require.NoError(t, ValidateParameters(ok, schema))

	bad := map[string]any{
		"scenario_dir": "scenario_5_supplier_issues",
		"lines":        []any{map[string]any{"product_id": "P-5001", "quantity": "many"}},
	}

	var vErr *ValidationError
	require.ErrorAs(t, ValidateParameters(bad, schema), &vErr)
	assert.Contains(t, vErr.Field, "quantity")
}
