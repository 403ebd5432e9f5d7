package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/runner"
)

// Run executes the actions under the monitor. It blocks until the run has
// finished and the operator closes the view, and returns the error the run
// ended with so the command can exit non-zero.
func Run(ctx context.Context, r *runner.Runner, actions []action.Action, logLines <-chan string) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewMonitor(actions, logLines, cancel), tea.WithAltScreen())
	r.WithEvents(NewProgramEvents(p))

	go func() {
		if err := r.Run(runCtx, actions); err != nil {
			// Failures before the first action never reach the events
			// interface, so send the terminal message from here as well.
			if runCtx.Err() == nil {
				p.Send(RunFailedMsg{Err: err})
			}
		}
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run monitor: %w", err)
	}
	if m, ok := final.(Monitor); ok {
		return m.Err()
	}
	return nil
}
