package model

import (
	"context"
	"time"

	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/metrics"
)

// Instrumented logs every model call and records Prometheus metrics for it.
type Instrumented struct {
	next   Model
	logger logging.Logger
}

// NewInstrumented wraps m. A nil logger disables logging but keeps metrics.
func NewInstrumented(m Model, logger logging.Logger) *Instrumented {
	return &Instrumented{next: m, logger: logging.OrNoOp(logger)}
}

// Generate forwards the wrapped model's channels while observing them.
func (i *Instrumented) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	info := i.next.Info()
	start := time.Now()

	inCh, inErr := i.next.Generate(ctx, req)

	out := make(chan Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		var (
			usage  *TokenUsage
			failed error
		)

		for inCh != nil || inErr != nil {
			select {
			case r, ok := <-inCh:
				if !ok {
					inCh = nil
					continue
				}

				if r.Usage != nil {
					usage = r.Usage
				}

				select {
				case out <- r:
				case <-ctx.Done():
					failed = ctx.Err()
					errCh <- failed
					i.observe(info, req, start, usage, failed)

					return
				}
			case err, ok := <-inErr:
				if !ok {
					inErr = nil
					continue
				}

				if err != nil && failed == nil {
					failed = err
					errCh <- err
				}
			}
		}

		i.observe(info, req, start, usage, failed)
	}()

	return out, errCh
}

func (i *Instrumented) observe(info Info, req Request, start time.Time, usage *TokenUsage, err error) {
	dur := time.Since(start)
	status := metrics.Status(err)

	metrics.RecordModelRequest(info.Provider, info.Name, status, dur.Seconds())

	tokens := 0
	if usage != nil {
		metrics.RecordModelTokens(info.Provider, info.Name, usage.PromptTokens, usage.CompletionTokens)
		tokens = usage.TotalTokens
	}

	args := []any{"provider", info.Provider, "model", info.Name, "messages", len(req.Messages), "tools", len(req.Tools), "token_count", tokens, "duration", dur}
	if err != nil {
		i.logger.Error("model.generate.failed", append(args, "error", err.Error())...)
		return
	}

	i.logger.Debug("model.generate.completed", args...)
}

// Info implements Model interface.
func (i *Instrumented) Info() Info { return i.next.Info() }
