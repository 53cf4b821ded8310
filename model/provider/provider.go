// Package provider builds model.Model instances from an explicit
// config.Config, so no component reads provider settings from globals.
package provider

import (
	"fmt"
	"sync"

	"github.com/hupe1980/logimesh/config"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/model"
	"github.com/hupe1980/logimesh/model/anthropic"
	"github.com/hupe1980/logimesh/model/openai"
)

// Factory hands out models for agents. Real providers share one rate limited
// client; the mock provider gives every agent its own script.
type Factory struct {
	cfg    *config.Config
	logger logging.Logger

	once   sync.Once
	shared model.Model
	script model.Script
	err    error
}

// New creates a Factory for cfg. The config is validated up front.
func New(cfg *config.Config, logger logging.Logger) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Factory{cfg: cfg, logger: logging.OrNoOp(logger)}, nil
}

// Model returns the model used by agent.
func (f *Factory) Model(agent string) (model.Model, error) {
	f.once.Do(f.init)

	if f.err != nil {
		return nil, f.err
	}

	if f.cfg.Provider == config.ProviderMock {
		m, err := f.script.Model(agent)
		if err != nil {
			return nil, err
		}

		return model.NewInstrumented(m, f.logger), nil
	}

	return f.shared, nil
}

func (f *Factory) init() {
	switch f.cfg.Provider {
	case config.ProviderMock:
		f.script, f.err = model.LoadScript(f.cfg.MockScript)
		return
	case config.ProviderClaude, config.ProviderOpenAI, config.ProviderGemini:
		base, err := NewModel(f.cfg)
		if err != nil {
			f.err = err
			return
		}

		f.shared = model.NewInstrumented(model.NewRateLimited(base, f.cfg.RequestsPerSecond, 1), f.logger)
	default:
		f.err = fmt.Errorf("%w: %q", config.ErrUnsupportedProvider, f.cfg.Provider)
	}
}

// NewModel builds the raw provider model selected by cfg.
func NewModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderClaude:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = cfg.Model()
			o.APIKey = cfg.AnthropicAPIKey
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.Model = cfg.Model()
			o.APIKey = cfg.OpenAIAPIKey
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
		}), nil
	case config.ProviderGemini:
		return openai.NewModel(func(o *openai.Options) {
			o.Model = cfg.Model()
			o.APIKey = cfg.GoogleAPIKey
			o.BaseURL = openai.GeminiBaseURL
			o.Provider = config.ProviderGemini
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedProvider, cfg.Provider)
	}
}
