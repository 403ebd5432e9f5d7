// Package tui renders a live monitor for action runs. The left panel tracks
// the action checklist while the right panel streams log output, so an
// operator can watch CVP converge without tailing stderr.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

// maxLogLines bounds the log pane buffer.
const maxLogLines = 1000

// monitorState represents the current state of the monitor view.
type monitorState int

const (
	stateRunning monitorState = iota
	stateCancelling
	stateDone
	stateCancelled
)

// actionDisplay holds display information for one action.
type actionDisplay struct {
	Label  string
	Status string // "pending", "running", "completed", "failed"
}

// Message types for runner events

// ActionStartedMsg is sent when an action begins execution.
type ActionStartedMsg struct {
	Num   int
	Total int
	Label string
}

// ActionDoneMsg is sent when an action completes successfully.
type ActionDoneMsg struct {
	Label string
}

// ActionFailedMsg is sent when an action fails.
type ActionFailedMsg struct {
	Label string
	Err   error
}

// TaskWaitMsg is sent on every poll of a server task that is still in flight.
type TaskWaitMsg struct {
	TaskID  string
	Status  cvp.TaskStatus
	Elapsed time.Duration
}

// RunDoneMsg signals that every action finished successfully.
type RunDoneMsg struct {
	Succeeded int
	Duration  time.Duration
}

// RunFailedMsg signals that the run stopped on a failed action.
type RunFailedMsg struct {
	Err error
}

// RunCancelledMsg signals that the run stopped on a cancelled context.
type RunCancelledMsg struct{}

// LogLineMsg contains one line of log output.
type LogLineMsg struct {
	Line string
}

// tickMsg is used for elapsed time updates.
type tickMsg time.Time

// Monitor is the model for the run monitor view.
type Monitor struct {
	state         monitorState
	actions       []actionDisplay
	currentAction int // 1-indexed
	totalActions  int
	startTime     time.Time

	spinner  spinner.Model
	logView  viewport.Model
	logLines []string

	// For receiving log lines from the runner's logger
	logChan <-chan string
	cancel  context.CancelFunc

	// Poll status line for the server task in flight, if any
	waiting string

	finalErr     error
	finalMessage string

	width  int
	height int
}

// NewMonitor creates a Monitor for the given actions. Log lines read from
// logLines are rendered in the output pane, and cancel is invoked when the
// operator requests a stop.
func NewMonitor(actions []action.Action, logLines <-chan string, cancel context.CancelFunc) Monitor {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle

	displays := make([]actionDisplay, len(actions))
	for i := range actions {
		displays[i] = actionDisplay{Label: actions[i].Label(), Status: "pending"}
	}

	return Monitor{
		state:        stateRunning,
		actions:      displays,
		totalActions: len(actions),
		startTime:    time.Now(),
		spinner:      s,
		logView:      viewport.New(80, 20), // Resized on the first WindowSizeMsg
		logChan:      logLines,
		cancel:       cancel,
	}
}

// Err returns the error the run finished with, if any.
func (m Monitor) Err() error {
	return m.finalErr
}

// Init implements tea.Model.
func (m Monitor) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.tickCmd(),
		m.listenForLogs(),
	)
}

// tickCmd returns a command that sends tick messages for elapsed time updates.
func (m Monitor) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenForLogs returns a command that waits for the next log line.
func (m Monitor) listenForLogs() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.logChan
		if !ok {
			return nil
		}
		return LogLineMsg{Line: line}
	}
}

// Update implements tea.Model.
func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLogSize()
		return m, nil

	case spinner.TickMsg:
		if m.state == stateRunning || m.state == stateCancelling {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tickMsg:
		if m.state == stateRunning || m.state == stateCancelling {
			return m, m.tickCmd()
		}
		return m, nil

	case ActionStartedMsg:
		m.currentAction = msg.Num
		m.totalActions = msg.Total
		m.waiting = ""
		if msg.Num > 0 && msg.Num <= len(m.actions) {
			m.actions[msg.Num-1].Status = "running"
		}
		return m, nil

	case ActionDoneMsg:
		m.waiting = ""
		for i := range m.actions {
			if m.actions[i].Status == "running" {
				m.actions[i].Status = "completed"
				break
			}
		}
		return m, nil

	case ActionFailedMsg:
		m.waiting = ""
		for i := range m.actions {
			if m.actions[i].Status == "running" {
				m.actions[i].Status = "failed"
				break
			}
		}
		return m, nil

	case TaskWaitMsg:
		m.waiting = fmt.Sprintf("task %s: %s (%s)", msg.TaskID, msg.Status, msg.Elapsed.Round(time.Second))
		return m, nil

	case RunDoneMsg:
		m.state = stateDone
		m.waiting = ""
		m.finalMessage = fmt.Sprintf("Completed %d/%d actions in %s",
			msg.Succeeded, m.totalActions, formatDuration(msg.Duration))
		return m, nil

	case RunFailedMsg:
		m.state = stateDone
		m.waiting = ""
		m.finalErr = msg.Err
		m.finalMessage = msg.Err.Error()
		return m, nil

	case RunCancelledMsg:
		m.state = stateCancelled
		m.waiting = ""
		m.finalMessage = fmt.Sprintf("Stopped. Completed %d/%d actions.",
			m.countCompleted(), m.totalActions)
		return m, nil

	case LogLineMsg:
		m.appendLog(msg.Line)
		return m, m.listenForLogs()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Pass anything else through to the log viewport for scrolling.
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input based on current state.
func (m Monitor) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateRunning:
		switch msg.String() {
		case "ctrl+c":
			// Trigger a graceful stop. The runner finishes the action in
			// flight and exits before starting the next one.
			m.state = stateCancelling
			m.finalMessage = "Stopping after the current action..."
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			return m, nil
		case "up", "k", "pgup", "down", "j", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case stateCancelling:
		switch msg.String() {
		case "up", "k", "pgup", "down", "j", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case stateDone, stateCancelled:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

// appendLog adds a line to the log pane, trimming the buffer when it grows
// past maxLogLines.
func (m *Monitor) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

// updateLogSize recalculates the log viewport size from the window size.
func (m *Monitor) updateLogSize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	// Right panel is 60% of the width minus borders and padding.
	logWidth := (m.width * 60 / 100) - 6
	logHeight := m.height - 8

	if logWidth < 10 {
		logWidth = 10
	}
	if logHeight < 3 {
		logHeight = 3
	}

	m.logView.Width = logWidth
	m.logView.Height = logHeight
}

// View implements tea.Model.
func (m Monitor) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.state {
	case stateRunning, stateCancelling:
		return m.renderRunning()
	case stateDone:
		return m.renderDone()
	case stateCancelled:
		return m.renderCancelled()
	}

	return ""
}

// renderRunning renders the split-panel monitor view.
func (m Monitor) renderRunning() string {
	var b strings.Builder

	title := titleStyle.Render("cvpctl run")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	leftWidth := (m.width * 40 / 100) - 2
	rightWidth := (m.width * 60 / 100) - 2
	panelHeight := m.height - 6
	if panelHeight < 5 {
		panelHeight = 5
	}

	leftPanel := boxStyle.
		Width(leftWidth).
		Height(panelHeight).
		Render(m.renderActionPanel(leftWidth-2, panelHeight))

	rightPanel := boxStyle.
		Width(rightWidth).
		Height(panelHeight).
		Render(m.renderLogPanel())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel))
	b.WriteString("\n")

	statusItems := []string{"Running...", "Ctrl+C Stop"}
	if m.state == stateCancelling {
		statusItems = []string{"Stopping...", "Waiting for the current action"}
	}
	b.WriteString(statusBar(m.width, statusItems))

	return b.String()
}

// renderActionPanel renders the action checklist with progress details.
func (m Monitor) renderActionPanel(width, height int) string {
	var lines []string

	header := fmt.Sprintf("Action 0/%d", m.totalActions)
	if m.currentAction > 0 && m.currentAction <= len(m.actions) {
		header = fmt.Sprintf("Action %d/%d: %s",
			m.currentAction, m.totalActions, m.actions[m.currentAction-1].Label)
	}
	lines = append(lines, truncate(header, width))
	lines = append(lines, subtleStyle.Render(formatDuration(time.Since(m.startTime))))
	lines = append(lines, "")

	lines = append(lines, subtleStyle.Render("Actions"))
	for i, act := range m.actions {
		isCurrent := i+1 == m.currentAction
		indicator := m.actionIndicator(act.Status, isCurrent)
		lines = append(lines, truncate(fmt.Sprintf("%s %d. %s", indicator, i+1, act.Label), width))
	}

	if m.waiting != "" {
		lines = append(lines, "")
		lines = append(lines, truncate(subtleStyle.Render(m.waiting), width))
	}

	content := strings.Join(lines, "\n")
	if len(lines) < height {
		content += strings.Repeat("\n", height-len(lines))
	}
	return content
}

// renderLogPanel renders the log output pane.
func (m Monitor) renderLogPanel() string {
	return subtleStyle.Render("Log") + "\n" + m.logView.View()
}

// actionIndicator returns the status indicator for an action.
func (m Monitor) actionIndicator(status string, isCurrent bool) string {
	switch status {
	case "completed":
		return successStyle.Render("✓")
	case "failed":
		return errorStyle.Render("✗")
	case "running":
		if isCurrent {
			return m.spinner.View()
		}
		return selectedStyle.Render("▶")
	default: // pending
		return subtleStyle.Render("○")
	}
}

// renderDone renders the completion view.
func (m Monitor) renderDone() string {
	var b strings.Builder

	var title string
	if m.finalErr == nil {
		title = successStyle.Render("Run Completed")
	} else {
		title = errorStyle.Render("Run Failed")
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var result string
	if m.finalErr == nil {
		result = fmt.Sprintf("%s %s", successStyle.Render("✓"), m.finalMessage)
	} else {
		result = fmt.Sprintf("%s %s", errorStyle.Render("✗"), m.finalMessage)
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, result))
	b.WriteString("\n\n")

	b.WriteString(m.renderSummary())
	b.WriteString(statusBar(m.width, []string{"Enter Close", "q Quit"}))

	return b.String()
}

// renderCancelled renders the cancelled view.
func (m Monitor) renderCancelled() string {
	var b strings.Builder

	title := subtleStyle.Render("Run Cancelled")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.finalMessage))
	b.WriteString("\n\n")

	b.WriteString(m.renderSummary())
	b.WriteString(statusBar(m.width, []string{"Enter Close", "q Quit"}))

	return b.String()
}

// renderSummary renders the centered action checklist used by the final views.
func (m Monitor) renderSummary() string {
	var b strings.Builder

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, subtleStyle.Render("Actions:")))
	b.WriteString("\n")
	for i, act := range m.actions {
		line := fmt.Sprintf("%s %d. %s", m.actionIndicator(act.Status, false), i+1, act.Label)
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	lines := strings.Count(b.String(), "\n") + 4
	if remaining := m.height - lines; remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}
	return b.String()
}

// countCompleted returns the number of completed actions.
func (m Monitor) countCompleted() int {
	count := 0
	for _, act := range m.actions {
		if act.Status == "completed" {
			count++
		}
	}
	return count
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatDuration formats a duration as MM:SS or HH:MM:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%02d:%02d", mins, s)
}
