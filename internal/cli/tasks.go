package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/runner"
)

var (
	tasksRunIDs     []string
	tasksRunTimeout time.Duration
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and execute pending CVP tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks pending execution",
	RunE:  runTasksList,
}

var tasksRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute pending tasks and wait for each to finish",
	Long: `Execute the named tasks, or every pending task when none are named,
polling each one to a terminal state before starting the next.`,
	RunE: runTasksRun,
}

func init() {
	tasksRunCmd.Flags().StringSliceVar(&tasksRunIDs, "task", nil, "task ID to execute (repeatable; default all pending)")
	tasksRunCmd.Flags().DurationVarP(&tasksRunTimeout, "task-timeout", "t", runner.DefaultTaskTimeout, "max time to wait for one task")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksRunCmd)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	pending, err := client.PendingTasks(cmd.Context())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending tasks.")
		return nil
	}
	for _, t := range pending {
		fmt.Printf("%-8s %-12s %s\n", t.ID, t.Status, t.Description)
	}
	return nil
}

func runTasksRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	ids := tasksRunIDs
	if len(ids) == 0 {
		pending, err := client.PendingTasks(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No pending tasks.")
			return nil
		}
		for _, t := range pending {
			ids = append(ids, t.ID)
		}
	}

	r := runner.New(client, logger).WithTaskTimeout(tasksRunTimeout)
	for _, id := range ids {
		logger.Info("executing task", zap.String("task_id", id))
		if err := r.ExecuteAndWait(ctx, id); err != nil {
			return err
		}
	}
	logger.Info("all tasks finished", zap.Int("count", len(ids)))
	return nil
}
