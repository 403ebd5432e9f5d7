package runner

import (
	"time"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

// Events receives callbacks during a run.
// Implement this interface in the TUI to receive updates.
type Events interface {
	// OnActionStart is called when an action begins execution
	OnActionStart(num, total int, act *action.Action)

	// OnActionDone is called when an action succeeds
	OnActionDone(act *action.Action)

	// OnActionFailed is called when an action fails
	OnActionFailed(act *action.Action, err error)

	// OnTaskWait is called on every poll of a spawned task that is still
	// in flight
	OnTaskWait(taskID string, status cvp.TaskStatus, elapsed time.Duration)

	// OnRunDone is called when every action finishes successfully
	OnRunDone(succeeded int, duration time.Duration)

	// OnRunFailed is called when an action fails and stops the run
	OnRunFailed(act *action.Action, err error)

	// OnRunCancelled is called when the run stops on a cancelled context
	OnRunCancelled(act *action.Action)
}

// NopEvents ignores every callback. It is the default for headless runs.
type NopEvents struct{}

func (NopEvents) OnActionStart(num, total int, act *action.Action)                       {}
func (NopEvents) OnActionDone(act *action.Action)                                        {}
func (NopEvents) OnActionFailed(act *action.Action, err error)                           {}
func (NopEvents) OnTaskWait(taskID string, status cvp.TaskStatus, elapsed time.Duration) {}
func (NopEvents) OnRunDone(succeeded int, duration time.Duration)                        {}
func (NopEvents) OnRunFailed(act *action.Action, err error)                              {}
func (NopEvents) OnRunCancelled(act *action.Action)                                      {}

var _ Events = NopEvents{}
