package openai

import (
	"testing"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	call := core.ToolInvocation{ID: "c1", Name: "calculate_roi", Arguments: `{"investment_amount":1000,"expected_savings":200}`}

	got := buildMessages(model.Request{
		Instructions: "You are a cost optimizer.",
		Messages: []core.Message{
			core.NewHumanMessage("costs are up"),
			core.NewAgentMessage("cost_optimizer", "", call),
			core.NewToolResultMessage("c1", "calculate_roi", "ROI: 140%", false),
			core.NewAgentMessage("cost_optimizer", "Invest."),
		},
	})

	require.Len(t, got, 5)
	assert.NotNil(t, got[0].OfSystem)
	assert.NotNil(t, got[1].OfUser)
	require.NotNil(t, got[2].OfAssistant)
	require.Len(t, got[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "c1", got[2].OfAssistant.ToolCalls[0].ID)
	require.NotNil(t, got[3].OfTool)
	assert.Equal(t, "c1", got[3].OfTool.ToolCallID)
	assert.NotNil(t, got[4].OfAssistant)
}

func TestBuildMessages_UnansweredCallsBecomeText(t *testing.T) {
	got := buildMessages(model.Request{
		Messages: []core.Message{
			core.NewHumanMessage("alert"),
			core.NewAgentMessage("demand_forecaster", "", core.ToolInvocation{ID: "x", Name: "predict_demand_spike"}),
			core.NewToolResultMessage("orphan", "t", "r", false),
		},
	})

	require.Len(t, got, 2)
	require.NotNil(t, got[1].OfAssistant)
	assert.Empty(t, got[1].OfAssistant.ToolCalls)
	assert.Contains(t, got[1].OfAssistant.Content.OfString.Value, "predict_demand_spike")
}

func TestBuildParams(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test" })

	params := m.buildParams(model.Request{
		Messages: []core.Message{core.NewHumanMessage("hi")},
		Tools: []model.ToolDefinition{{
			Type:     "function",
			Function: model.FunctionDefinition{Name: "transfer_to_cost_optimizer", Parameters: map[string]any{"type": "object"}},
		}},
	})

	assert.Equal(t, DefaultModel, params.Model)
	require.Len(t, params.Tools, 1)
	assert.Equal(t, "transfer_to_cost_optimizer", params.Tools[0].Function.Name)
	assert.False(t, params.ParallelToolCalls.Value)
	assert.True(t, params.ParallelToolCalls.Valid())
}

func TestBuildParams_CompatibleEndpoint(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.BaseURL = GeminiBaseURL
		o.Provider = "gemini"
		o.Model = "gemini-2.5-flash"
	})

	params := m.buildParams(model.Request{
		Tools: []model.ToolDefinition{{Function: model.FunctionDefinition{Name: "x"}}},
	})

	assert.False(t, params.ParallelToolCalls.Valid())
	assert.Equal(t, "gemini", m.Info().Provider)
	assert.Equal(t, "gemini-2.5-flash", m.Info().Name)
}
