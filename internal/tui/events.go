package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
	"github.com/cvptools/cvpctl/internal/runner"
)

// ProgramEvents forwards runner callbacks to the monitor as Bubble Tea
// messages.
type ProgramEvents struct {
	program *tea.Program
}

// NewProgramEvents creates a runner.Events implementation that sends
// messages to the given Bubble Tea program.
func NewProgramEvents(program *tea.Program) *ProgramEvents {
	return &ProgramEvents{program: program}
}

// OnActionStart implements runner.Events.
func (e *ProgramEvents) OnActionStart(num, total int, act *action.Action) {
	e.program.Send(ActionStartedMsg{Num: num, Total: total, Label: act.Label()})
}

// OnActionDone implements runner.Events.
func (e *ProgramEvents) OnActionDone(act *action.Action) {
	e.program.Send(ActionDoneMsg{Label: act.Label()})
}

// OnActionFailed implements runner.Events.
func (e *ProgramEvents) OnActionFailed(act *action.Action, err error) {
	e.program.Send(ActionFailedMsg{Label: act.Label(), Err: err})
}

// OnTaskWait implements runner.Events.
func (e *ProgramEvents) OnTaskWait(taskID string, status cvp.TaskStatus, elapsed time.Duration) {
	e.program.Send(TaskWaitMsg{TaskID: taskID, Status: status, Elapsed: elapsed})
}

// OnRunDone implements runner.Events.
func (e *ProgramEvents) OnRunDone(succeeded int, duration time.Duration) {
	e.program.Send(RunDoneMsg{Succeeded: succeeded, Duration: duration})
}

// OnRunFailed implements runner.Events.
func (e *ProgramEvents) OnRunFailed(act *action.Action, err error) {
	e.program.Send(RunFailedMsg{Err: err})
}

// OnRunCancelled implements runner.Events.
func (e *ProgramEvents) OnRunCancelled(act *action.Action) {
	e.program.Send(RunCancelledMsg{})
}

// Verify interface compliance
var _ runner.Events = (*ProgramEvents)(nil)
