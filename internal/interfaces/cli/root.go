// Package cli defines the molscore command tree: run (score batches from a
// file or stdin), transforms (inspect transform curves), and the global
// config and logging flags shared by all commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// CLIContext carries initialised dependencies through the command tree.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger
}

type cliContextKey struct{}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "molscore",
		Short: "Scoring and diversity engine for generative molecule design",
		Long: "molscore turns batches of candidate molecular structures into per-structure\n" +
			"rewards: configurable scoring components, score transforms, weighted\n" +
			"aggregation with alert penalties, a scaffold diversity filter, and an\n" +
			"inception seed memory.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./molscore.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "equivalent to --log-level debug")

	cmd.AddCommand(
		newRunCommand(opts),
		newTransformsCommand(),
	)
	return cmd
}

// initContext loads configuration and builds the logger for commands that
// need the full engine.  When the configuration came from a file, the file
// is watched for the rest of the process lifetime and log-level changes are
// applied in place; all other settings are fixed per run.
func initContext(cmd *cobra.Command, opts *RootOptions) (*CLIContext, error) {
	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		cfg.Log.Level = "debug"
	} else if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	if cfgPath != "" {
		watchLogLevel(cfgPath, logger)
	}

	cliCtx := &CLIContext{Config: cfg, Logger: logger}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return cliCtx, nil
}

// loadConfig resolves configuration: explicit --config path, then
// ./molscore.yaml, then environment variables only.  The returned path is
// empty when no config file was involved.
func loadConfig(opts *RootOptions) (*config.Config, string, error) {
	path := opts.ConfigPath
	if path == "" {
		if _, err := os.Stat("molscore.yaml"); err == nil {
			path = "molscore.yaml"
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeConfigLoadFailed, "configuration could not be loaded")
	}
	return cfg, path, nil
}

// watchLogLevel follows the config file and applies log-level changes to
// the running logger.  Only the level is hot-reloadable; scoring, diversity
// and inception settings stay fixed for the lifetime of a run.
func watchLogLevel(path string, logger logging.Logger) {
	config.Watch(path, func(cfg *config.Config) {
		if ls, ok := logger.(logging.LevelSetter); ok {
			ls.SetLevel(cfg.Log.Level)
			logger.Info("log level updated", logging.String("level", cfg.Log.Level))
		}
	})
}

// Execute runs the CLI and reports the error to stderr.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}
