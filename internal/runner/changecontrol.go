package runner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

// Change control defaults. The snapshot template key is the stock template
// every CVP install ships with.
const (
	DefaultSnapshotTemplate = "1708dd89-ff4b-4d1e-b09e-ee490b3e27f0"
	DefaultScheduleDelay    = 3 * time.Minute
	scheduleLayout          = "2006-01-02 15:04"
)

// createChangeControl groups every pending task on the server into one
// scheduled change control. With nothing pending the action is a no-op.
func (r *Runner) createChangeControl(ctx context.Context, act *action.Action) error {
	pending, err := r.api.PendingTasks(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		r.log.Warn("no pending tasks, skipping change control", zap.String("action", act.Label()))
		return nil
	}

	cc := r.buildChangeControl(act, pending, time.Now())
	id, err := r.api.CreateChangeControl(ctx, cc)
	if err != nil {
		return err
	}
	r.log.Info("change control created",
		zap.String("change_control", cc.Name),
		zap.String("id", id),
		zap.Int("tasks", len(cc.Tasks)),
		zap.String("scheduled", cc.DateTime))
	return nil
}

// buildChangeControl assembles the change control payload. An omitted
// schedule defaults to now plus DefaultScheduleDelay; now is a parameter so
// that default is deterministic under test. Linear mode runs every task at
// order 1, incremental mode runs them one after another.
func (r *Runner) buildChangeControl(act *action.Action, pending []cvp.Task, now time.Time) *cvp.ChangeControl {
	name := act.Name
	if name == "" {
		name = fmt.Sprintf("Automated_Change_Control_%.8s", r.runID)
	}

	schedule := act.Schedule
	if schedule == "" {
		schedule = now.Add(DefaultScheduleDelay).Format(scheduleLayout)
	}
	timezone := act.Timezone
	if timezone == "" {
		timezone = r.timezone
	}
	country := act.Country
	if country == "" {
		country = r.country
	}
	snapID := act.SnapID
	if snapID == "" {
		snapID = DefaultSnapshotTemplate
	}

	tasks := make([]cvp.ChangeControlTask, 0, len(pending))
	for i, t := range pending {
		order := 1
		if act.Mode == action.ModeIncremental {
			order = i + 1
		}
		tasks = append(tasks, cvp.ChangeControlTask{
			TaskID:              t.ID,
			TaskOrder:           order,
			SnapshotTemplateKey: snapID,
		})
	}

	return &cvp.ChangeControl{
		Name:              name,
		Type:              "Custom",
		DateTime:          schedule,
		Timezone:          timezone,
		CountryID:         country,
		StopOnError:       "true",
		ScheduleExecution: strconv.FormatBool(act.Apply),
		Tasks:             tasks,
	}
}
