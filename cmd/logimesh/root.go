package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/logimesh"
	"github.com/hupe1980/logimesh/config"
	"github.com/hupe1980/logimesh/logging"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	dataDir    string
	provider   string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "logimesh",
		Short:        "Logistics multi-agent system",
		SilenceUsage: true,
		Long: `logimesh coordinates six specialised logistics agents (route planning,
procurement, inventory, distribution, demand forecasting and cost
optimisation) under a main orchestrator to resolve mock logistics scenarios.

Without a command it starts the interactive menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file")
	flags.StringVar(&opts.dataDir, "data-dir", "", "scenario data directory (overrides config)")
	flags.StringVar(&opts.provider, "provider", "", "model provider: claude, openai, gemini or mock (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newInteractiveCmd(opts),
		newServeCmd(opts),
		newGraphCmd(opts),
		newValidateCmd(opts),
	)

	return cmd
}

// loadConfig loads the config file, dotenv and environment, then applies
// flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(func(lo *config.Options) { lo.File = o.configFile })
	if err != nil {
		return nil, err
	}

	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}

	if o.provider != "" {
		cfg.Provider = o.provider
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.MeshLogger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Format = cfg.Log.Format
	lc.Output = cmd.ErrOrStderr()
	lc.Component = "cli"

	return logging.NewLogger(lc), nil
}

// setup loads the config and builds the logger and the mesh.
func (o *rootOptions) setup(cmd *cobra.Command) (*logimesh.Mesh, *logging.MeshLogger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	mesh, err := logimesh.New(cfg, func(mo *logimesh.Options) { mo.Logger = logger })
	if err != nil {
		return nil, nil, fmt.Errorf("initialise mesh: %w", err)
	}

	return mesh, logger, nil
}
