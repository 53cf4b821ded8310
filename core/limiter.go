package core

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrModelCallLimit is returned once a ModelLimiter's budget is exhausted.
var ErrModelCallLimit = errors.New("exceeded max model calls")

// ModelLimiter counts model calls against a fixed budget. Workers use one per
// invocation to bound their tool loop; the counter is lock free so a limiter
// may be shared by concurrent callers.
type ModelLimiter struct {
	budget int64
	calls  atomic.Int64
}

// NewModelLimiter creates a limiter allowing budget calls; 0 means no limit.
func NewModelLimiter(budget int) *ModelLimiter {
	return &ModelLimiter{budget: int64(budget)}
}

// Increment records one call. It fails with ErrModelCallLimit once the
// budget is exceeded; the call is still counted.
func (ml *ModelLimiter) Increment() error {
	n := ml.calls.Add(1)
	if ml.budget > 0 && n > ml.budget {
		return fmt.Errorf("%w: %d", ErrModelCallLimit, ml.budget)
	}

	return nil
}

// Count returns the number of recorded calls.
func (ml *ModelLimiter) Count() int { return int(ml.calls.Load()) }

// Remaining returns the calls left in the budget, or -1 without a limit.
func (ml *ModelLimiter) Remaining() int {
	if ml.budget == 0 {
		return -1
	}

	return max(int(ml.budget-ml.calls.Load()), 0)
}
