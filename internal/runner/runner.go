// Package runner executes task-file actions against a CVP server.
//
// Actions run sequentially and fail fast: the first error stops the run.
// Provisioning changes spawn asynchronous tasks on the server; the runner
// polls those to a terminal status before moving on, so a completed run
// means the network actually converged.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/config"
)

// Defaults for task polling.
const (
	DefaultPollInterval = time.Second
	DefaultTaskTimeout  = 10 * time.Second
)

// handler executes one (type, action) pair.
type handler func(*Runner, context.Context, *action.Action) error

// handlers maps each dispatchable pair to its implementation. The table
// mirrors action.Validate: every pair accepted there has an entry here.
var handlers = map[action.Key]handler{
	{Kind: action.KindContainer, Op: action.OpCreate}:        (*Runner).createContainer,
	{Kind: action.KindContainer, Op: action.OpDestroy}:       (*Runner).destroyContainer,
	{Kind: action.KindContainer, Op: action.OpAttachDevice}:  (*Runner).attachDevices,
	{Kind: action.KindConfiglet, Op: action.OpAdd}:           (*Runner).addConfiglet,
	{Kind: action.KindConfiglet, Op: action.OpUpdate}:        (*Runner).updateConfiglet,
	{Kind: action.KindConfiglet, Op: action.OpDelete}:        (*Runner).deleteConfiglet,
	{Kind: action.KindConfiglet, Op: action.OpAddDevices}:    (*Runner).addConfigletDevices,
	{Kind: action.KindConfiglet, Op: action.OpRemoveDevices}: (*Runner).removeConfigletDevices,
	{Kind: action.KindChangeControl, Op: action.OpNone}:      (*Runner).createChangeControl,
	{Kind: action.KindChangeControl, Op: action.OpCreate}:    (*Runner).createChangeControl,
}

// Runner executes actions against one server.
type Runner struct {
	api          API
	log          *zap.Logger
	events       Events
	progress     *ProgressLogger
	pollInterval time.Duration
	taskTimeout  time.Duration
	pause        time.Duration
	timezone     string
	country      string
	runID        string
	startTime    time.Time
}

// New creates a Runner with the default polling cadence and no pause
// between actions.
func New(api API, log *zap.Logger) *Runner {
	return &Runner{
		api:          api,
		log:          log,
		events:       NopEvents{},
		pollInterval: DefaultPollInterval,
		taskTimeout:  DefaultTaskTimeout,
		timezone:     config.DefaultTimezone,
		country:      config.DefaultCountry,
		runID:        uuid.NewString(),
	}
}

// WithEvents routes run callbacks to ev (used by the monitor view).
func (r *Runner) WithEvents(ev Events) *Runner {
	r.events = ev
	return r
}

// WithProgressLog appends machine-readable progress events to path.
func (r *Runner) WithProgressLog(path string) *Runner {
	r.progress = NewProgressLogger(path, r.runID)
	return r
}

// WithPollInterval sets the task polling cadence (useful for testing).
func (r *Runner) WithPollInterval(d time.Duration) *Runner {
	r.pollInterval = d
	return r
}

// WithTaskTimeout bounds how long a spawned task may stay non-terminal.
func (r *Runner) WithTaskTimeout(d time.Duration) *Runner {
	r.taskTimeout = d
	return r
}

// WithPause inserts a delay between consecutive actions.
func (r *Runner) WithPause(d time.Duration) *Runner {
	r.pause = d
	return r
}

// WithScheduleDefaults sets the timezone and country applied to change
// controls whose descriptors leave them blank.
func (r *Runner) WithScheduleDefaults(timezone, country string) *Runner {
	r.timezone = timezone
	r.country = country
	return r
}

// RunID returns this run's unique identifier.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes every action in order, stopping at the first failure. All
// actions are validated before the first one touches the network. A
// cancelled context ends the run cleanly without an error.
func (r *Runner) Run(ctx context.Context, actions []action.Action) error {
	for i := range actions {
		if err := actions[i].Validate(); err != nil {
			return err
		}
	}

	r.startTime = time.Now()
	r.log.Info("run started",
		zap.String("run_id", r.runID),
		zap.Int("actions", len(actions)))
	if r.progress != nil {
		if err := r.progress.RunStarted(len(actions)); err != nil {
			return fmt.Errorf("failed to log run started: %w", err)
		}
	}

	for i := range actions {
		act := &actions[i]

		if ctx.Err() != nil {
			return r.cancelled(act)
		}
		if r.pause > 0 && i > 0 {
			select {
			case <-ctx.Done():
				return r.cancelled(act)
			case <-time.After(r.pause):
			}
		}

		r.events.OnActionStart(i+1, len(actions), act)
		r.log.Info("action started",
			zap.Int("num", i+1),
			zap.Int("total", len(actions)),
			zap.String("action", act.Label()))
		if r.progress != nil {
			r.progress.ActionStarted(i+1, act.Label())
		}

		if err := r.dispatch(ctx, act); err != nil {
			if ctx.Err() != nil {
				return r.cancelled(act)
			}
			r.events.OnActionFailed(act, err)
			r.events.OnRunFailed(act, err)
			r.log.Error("action failed",
				zap.String("action", act.Label()),
				zap.Error(err))
			if r.progress != nil {
				r.progress.ActionFailed(act.Label(), err)
				r.progress.RunFailed(act.Label(), err)
			}
			return fmt.Errorf("action %q failed: %w", act.Label(), err)
		}

		r.events.OnActionDone(act)
		r.log.Info("action completed", zap.String("action", act.Label()))
		if r.progress != nil {
			r.progress.ActionCompleted(act.Label())
		}
	}

	duration := time.Since(r.startTime)
	r.events.OnRunDone(len(actions), duration)
	r.log.Info("run completed",
		zap.Int("actions", len(actions)),
		zap.Duration("duration", duration))
	if r.progress != nil {
		r.progress.RunCompleted(len(actions), duration)
	}
	return nil
}

func (r *Runner) dispatch(ctx context.Context, act *action.Action) error {
	h, ok := handlers[act.Key()]
	if !ok {
		return fmt.Errorf("task %q: unknown type/action pair %q/%q", act.Name, act.Type, act.Action)
	}
	return h(r, ctx, act)
}

func (r *Runner) cancelled(act *action.Action) error {
	r.events.OnRunCancelled(act)
	r.log.Warn("run cancelled", zap.String("action", act.Label()))
	if r.progress != nil {
		r.progress.RunCancelled(act.Label())
	}
	return nil
}
