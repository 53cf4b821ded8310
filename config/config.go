// Package config holds the explicit configuration value passed to every
// component that talks to a model provider, reads scenario data or serves
// HTTP. Nothing in logimesh reads provider settings from globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported providers.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	// ProviderMock replays a YAML script instead of calling an API.
	ProviderMock = "mock"
)

// Default model names per provider.
const (
	DefaultClaudeModel = "claude-sonnet-4-20250514"
	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.5-flash"
)

var (
	// ErrUnsupportedProvider is returned for an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported model provider")
	// ErrMissingAPIKey is returned when the selected provider has no key.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Models holds the model name per provider.
type Models struct {
	Claude string `yaml:"claude"`
	OpenAI string `yaml:"openai"`
	Gemini string `yaml:"gemini"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Server configures the HTTP dashboard API.
type Server struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisPrefix    string        `yaml:"redis_prefix"`
	HistoryTTL     time.Duration `yaml:"history_ttl"`
}

// Config is the complete runtime configuration.
type Config struct {
	Provider string `yaml:"provider"`
	Models   Models `yaml:"models"`

	AnthropicAPIKey string `yaml:"-"`
	OpenAIAPIKey    string `yaml:"-"`
	GoogleAPIKey    string `yaml:"-"`

	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int64   `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	DataDir string `yaml:"data_dir"`
	// MockScript is the YAML script replayed by the mock provider.
	MockScript string `yaml:"mock_script"`

	// MaxSteps caps coordinator model calls per run.
	MaxSteps int `yaml:"max_steps"`
	// MaxWorkerIterations caps model calls per worker invocation.
	MaxWorkerIterations int `yaml:"max_worker_iterations"`

	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderClaude,
		Models: Models{
			Claude: DefaultClaudeModel,
			OpenAI: DefaultOpenAIModel,
			Gemini: DefaultGeminiModel,
		},
		Temperature:         0,
		MaxTokens:           4096,
		DataDir:             "mock_data",
		MaxSteps:            25,
		MaxWorkerIterations: 10,
		Log:                 Log{Level: "info", Format: "text"},
		Server: Server{
			Addr:        ":8080",
			RedisPrefix: "logimesh:run:",
			HistoryTTL:  24 * time.Hour,
		},
	}
}

// Options configures Load.
type Options struct {
	// File is an optional YAML config file.
	File string
	// EnvFiles are dotenv files loaded before reading the environment. They
	// never override variables already set. Missing files are skipped.
	EnvFiles []string
	// Getenv reads environment variables; defaults to os.Getenv.
	Getenv func(string) string
}

// Load builds a Config from defaults, an optional YAML file, dotenv files and
// the environment, in that order of precedence (later wins).
func Load(optFns ...func(o *Options)) (*Config, error) {
	opts := Options{
		EnvFiles: []string{".env"},
		Getenv:   os.Getenv,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := Default()

	if opts.File != "" {
		if err := cfg.mergeFile(opts.File); err != nil {
			return nil, err
		}
	}

	for _, path := range opts.EnvFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(opts.Getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("MODEL_PROVIDER"); v != "" {
		c.Provider = v
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	if v := getenv("ANTHROPIC_API_KEY"); v != "" {
		c.AnthropicAPIKey = v
	}

	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}

	if v := getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPIKey = v
	}

	if v := getenv("LOGIMESH_DATA_DIR"); v != "" {
		c.DataDir = v
	}

	if v := getenv("LOGIMESH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := getenv("LOGIMESH_REDIS_ADDR"); v != "" {
		c.Server.RedisAddr = v
	}

	if v := getenv("LOGIMESH_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGIMESH_MAX_STEPS: %w", err)
		}

		c.MaxSteps = n
	}

	return nil
}

// Model returns the configured model name for the selected provider.
func (c *Config) Model() string {
	switch c.Provider {
	case ProviderClaude:
		return c.Models.Claude
	case ProviderOpenAI:
		return c.Models.OpenAI
	case ProviderGemini:
		return c.Models.Gemini
	case ProviderMock:
		return "mock"
	default:
		return c.Models.Claude
	}
}

// APIKey returns the API key of the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderClaude:
		return c.AnthropicAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGemini:
		return c.GoogleAPIKey
	default:
		return ""
	}
}

// Validate checks that the selected provider is supported and usable.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY not found (set it in the environment or a .env file)", ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY not found (set it in the environment or a .env file)", ErrMissingAPIKey)
		}
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("%w: GOOGLE_API_KEY not found (set it in the environment or a .env file)", ErrMissingAPIKey)
		}
	case ProviderMock:
		if c.MockScript == "" {
			return fmt.Errorf("mock provider requires mock_script")
		}
	default:
		return fmt.Errorf("%w: %q (use %q, %q or %q)", ErrUnsupportedProvider, c.Provider, ProviderClaude, ProviderGemini, ProviderOpenAI)
	}

	if c.MaxSteps < 0 || c.MaxWorkerIterations < 0 {
		return fmt.Errorf("max_steps and max_worker_iterations must not be negative")
	}

	return nil
}

// Info describes the provider selection for display.
type Info struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	APIKeySet  bool   `json:"api_key_set"`
	Configured bool   `json:"configured"`
}

// Info reports the selected provider, model and whether it is usable.
func (c *Config) Info() Info {
	return Info{
		Provider:   c.Provider,
		Model:      c.Model(),
		APIKeySet:  c.APIKey() != "",
		Configured: c.Validate() == nil,
	}
}
