// Package cli wires configuration, logging, metrics and the session service
// into the redpacket command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/redpacket/internal/adapters/repository"
	service "github.com/okian/redpacket/internal/app"
	"github.com/okian/redpacket/internal/config"
	"github.com/okian/redpacket/pkg/logger"
	"github.com/okian/redpacket/pkg/metrics"
	"github.com/spf13/cobra"
)

// runtimeEnv is what every subcommand receives after the root pre-run.
type runtimeEnv struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Manager
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	env := &runtimeEnv{}

	root := &cobra.Command{
		Use:   "redpacket",
		Short: "Red packet split simulator",
		Long: `redpacket splits an amount of money into random shares the way a
"lucky money" red packet does, keeps a history of every draw and saves it
as JSON or YAML.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return env.teardown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&env.configPath, "config", "", "YAML config file (overrides REDPACKET_CONFIG)")
	root.PersistentFlags().StringVar(&env.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newDrawCommand(env),
		newSessionCommand(env),
		newHistoryCommand(env),
		newSimulateCommand(env),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (e *runtimeEnv) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	var (
		cfg *config.Config
		err error
	)
	if e.configPath != "" {
		cfg, err = config.LoadFrom(ctx, e.configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
	}

	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	e.cfg = cfg
	e.log = logger.Named(cmd.Name())
	e.metrics = metrics.Global()
	e.log.Debug(ctx, "configuration loaded",
		logger.String("history_file", cfg.HistoryFile),
		logger.Int64("seed", cfg.Seed),
		logger.Bool("autosave", cfg.Autosave),
	)
	return nil
}

func (e *runtimeEnv) teardown(ctx context.Context) error {
	if e.cfg == nil || e.cfg.MetricsTextfile == "" {
		return nil
	}
	if err := e.metrics.WriteTextfile(e.cfg.MetricsTextfile); err != nil {
		return err
	}
	e.log.Debug(ctx, "metrics written", logger.String("path", e.cfg.MetricsTextfile))
	return nil
}

// store opens the history file, at path when given, else the configured one.
func (e *runtimeEnv) store(path, format string) (*repository.FileStore, error) {
	if path == "" {
		path = e.cfg.HistoryFile
	}
	if format == "" {
		format = e.cfg.HistoryFormat
	}
	f, err := repository.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return repository.NewFileStore(path, repository.WithFormat(f))
}

// newService builds a session service from the configuration; seed overrides
// the configured seed when non-zero.
func (e *runtimeEnv) newService(seed int64, store repository.Store) (*service.Service, error) {
	minShare, err := e.cfg.MinShareAmount()
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = e.cfg.Seed
	}
	return service.New(
		service.WithLogger(e.log),
		service.WithMetrics(e.metrics),
		service.WithStore(store),
		service.WithSeed(seed),
		service.WithMinShare(minShare),
		service.WithAutosave(e.cfg.Autosave),
		service.WithMaxParticipants(e.cfg.MaxParticipants),
	), nil
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
