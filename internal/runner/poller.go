package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

// WaitForTask polls a spawned task until it reaches a terminal status. The
// first check happens before any sleep, so a task that is already terminal
// costs exactly one status call. Unknown statuses count as still in flight.
func (r *Runner) WaitForTask(ctx context.Context, taskID string) error {
	start := time.Now()
	for {
		t, err := r.api.TaskByID(ctx, taskID)
		if err != nil {
			return err
		}

		elapsed := time.Since(start)
		if t.Status == cvp.TaskCompleted {
			r.log.Info("task completed",
				zap.String("task_id", taskID),
				zap.Duration("elapsed", elapsed))
			return nil
		}
		if t.Status.Failure() {
			return fmt.Errorf("task %s ended with status %s", taskID, t.Status)
		}

		r.events.OnTaskWait(taskID, t.Status, elapsed)
		r.log.Debug("task still running",
			zap.String("task_id", taskID),
			zap.String("status", string(t.Status)),
			zap.Duration("elapsed", elapsed))

		if elapsed >= r.taskTimeout {
			return fmt.Errorf("timed out waiting for task %s after %s (last status %s)", taskID, r.taskTimeout, t.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}
}

// ExecuteAndWait starts a pending task and polls it to completion.
func (r *Runner) ExecuteAndWait(ctx context.Context, taskID string) error {
	if err := r.api.ExecuteTask(ctx, taskID); err != nil {
		return err
	}
	return r.WaitForTask(ctx, taskID)
}

// runTasks drives the spawned tasks serially when the descriptor asks for
// apply. Without apply they stay pending, typically for a later change
// control to pick up.
func (r *Runner) runTasks(ctx context.Context, act *action.Action, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if !act.Apply {
		r.log.Info("tasks left pending",
			zap.String("action", act.Label()),
			zap.Strings("task_ids", taskIDs))
		return nil
	}
	for _, id := range taskIDs {
		if err := r.ExecuteAndWait(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
