package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelLimiter(t *testing.T) {
	ml := NewModelLimiter(2)

	assert.NoError(t, ml.Increment())
	assert.Equal(t, 1, ml.Remaining())
	assert.NoError(t, ml.Increment())

	err := ml.Increment()
	assert.True(t, errors.Is(err, ErrModelCallLimit))
	assert.Equal(t, 3, ml.Count())
	assert.Equal(t, 0, ml.Remaining())
}

func TestModelLimiter_Unlimited(t *testing.T) {
	ml := NewModelLimiter(0)

	for i := 0; i < 100; i++ {
		assert.NoError(t, ml.Increment())
	}

	assert.Equal(t, -1, ml.Remaining())
}

func TestToolContext(t *testing.T) {
	tc := NewToolContext(context.Background(), AgentInfo{Name: "route_planner", Type: AgentTypeWorker}, "call-1", nil)

	assert.NoError(t, tc.Validate())
	assert.Equal(t, "route_planner", tc.AgentName())
	assert.Equal(t, AgentTypeWorker, tc.AgentType())
	assert.Equal(t, "call-1", tc.FunctionCallID())
	assert.NotNil(t, tc.Logger())

	invalid := NewToolContext(context.Background(), AgentInfo{}, "", nil)
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidToolContext)
	assert.False(t, (*ToolContext)(nil).IsValid())
}
