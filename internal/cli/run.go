package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/config"
	"github.com/cvptools/cvpctl/internal/logging"
	"github.com/cvptools/cvpctl/internal/runner"
	"github.com/cvptools/cvpctl/internal/tui"
)

var (
	runJSONFile    string
	runWatch       bool
	runPause       time.Duration
	runTaskTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a JSON task file",
	Long: `Run executes each task in the file sequentially, stopping at the first
failure. Provisioning changes that spawn server-side tasks are polled until
they reach a terminal state.`,
	RunE: runActions,
}

func init() {
	runCmd.Flags().StringVarP(&runJSONFile, "json", "j", "", "JSON task file to execute")
	runCmd.MarkFlagRequired("json")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "show an interactive monitor during the run")
	runCmd.Flags().DurationVar(&runPause, "pause", 0, "pause between consecutive actions")
	runCmd.Flags().DurationVarP(&runTaskTimeout, "task-timeout", "t", runner.DefaultTaskTimeout, "max time to wait for one spawned task")
}

func runActions(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Validate the whole file before opening a session.
	actions, err := action.LoadFile(runJSONFile)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if runWatch {
		return runWithMonitor(ctx, cfg, actions)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("connected",
		zap.String("endpoint", cfg.Endpoint()),
		zap.String("user", cfg.User))

	r := runner.New(client, logger).
		WithTaskTimeout(runTaskTimeout).
		WithPause(runPause).
		WithScheduleDefaults(cfg.Timezone, cfg.Country).
		WithProgressLog(runner.ProgressLogFile)
	return r.Run(ctx, actions)
}

// runWithMonitor executes the run under the interactive monitor. Log lines
// go through a channel sink into the monitor's viewport instead of stderr,
// which would corrupt the display.
func runWithMonitor(ctx context.Context, cfg *config.Config, actions []action.Action) error {
	sink := logging.NewChannelSink(256)
	logger, err := logging.NewWithSink(cfg.LogLevel, sink)
	if err != nil {
		return err
	}
	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	r := runner.New(client, logger).
		WithTaskTimeout(runTaskTimeout).
		WithPause(runPause).
		WithScheduleDefaults(cfg.Timezone, cfg.Country).
		WithProgressLog(runner.ProgressLogFile)
	return tui.Run(ctx, r, actions, sink.Lines())
}
