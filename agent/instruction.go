package agent

import (
	"context"
	"strings"
)

// Instruction yields an agent's system prompt. The text may contain
// text/template actions; the flow renders them against the run's template
// variables, so scenario details never need to be baked in here.
type Instruction func(ctx context.Context) (string, error)

// Text returns an Instruction that always yields text.
func Text(text string) Instruction {
	return func(context.Context) (string, error) { return text, nil }
}

// Resolve returns the prompt. A nil Instruction yields an empty prompt.
func (i Instruction) Resolve(ctx context.Context) (string, error) {
	if i == nil {
		return "", nil
	}

	return i(ctx)
}

// Append returns an Instruction yielding i's prompt followed by the
// non-empty parts, each on its own line.
func (i Instruction) Append(parts ...string) Instruction {
	return func(ctx context.Context) (string, error) {
		base, err := i.Resolve(ctx)
		if err != nil {
			return "", err
		}

		var b strings.Builder

		b.WriteString(base)

		for _, p := range parts {
			if p == "" {
				continue
			}

			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}

			b.WriteString(p)
		}

		return b.String(), nil
	}
}
