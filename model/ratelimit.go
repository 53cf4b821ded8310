package model

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited paces calls to a wrapped Model with a token bucket. All
// workers and the orchestrator typically share one instance so the provider
// sees a single request rate.
type RateLimited struct {
	next    Model
	limiter *rate.Limiter
}

// NewRateLimited wraps m allowing rps requests per second with the given
// burst. A non-positive rps disables limiting.
func NewRateLimited(m Model, rps float64, burst int) *RateLimited {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	if burst < 1 {
		burst = 1
	}

	return &RateLimited{next: m, limiter: rate.NewLimiter(limit, burst)}
}

// Generate waits for a token, then delegates.
func (r *RateLimited) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	if err := r.limiter.Wait(ctx); err != nil {
		respCh := make(chan Response)
		errCh := make(chan error, 1)
		errCh <- err

		close(respCh)
		close(errCh)

		return respCh, errCh
	}

	return r.next.Generate(ctx, req)
}

// Info implements Model interface.
func (r *RateLimited) Info() Info { return r.next.Info() }
