package runner

import (
	"encoding/json"
	"os"
	"time"
)

// ProgressLogFile is the default progress log name, written to the working
// directory.
const ProgressLogFile = "cvpctl-progress.log"

// Event type constants for progress logging.
const (
	EventRunStarted      = "run_started"
	EventRunCompleted    = "run_completed"
	EventRunCancelled    = "run_cancelled"
	EventRunFailed       = "run_failed"
	EventActionStarted   = "action_started"
	EventActionCompleted = "action_completed"
	EventActionFailed    = "action_failed"
)

// ProgressEvent represents a single progress log entry.
type ProgressEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	RunID     string                 `json:"run_id"`
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ProgressLogger writes progress events to a JSON Lines file.
type ProgressLogger struct {
	path  string
	runID string
}

// NewProgressLogger creates a progress logger appending to path.
func NewProgressLogger(path, runID string) *ProgressLogger {
	return &ProgressLogger{path: path, runID: runID}
}

// Log appends a progress event to the log file.
func (p *ProgressLogger) Log(event string, data map[string]interface{}) error {
	entry := ProgressEvent{
		Timestamp: time.Now(),
		RunID:     p.runID,
		Event:     event,
		Data:      data,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	jsonBytes = append(jsonBytes, '\n')

	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(jsonBytes)
	return err
}

// RunStarted logs a run_started event.
func (p *ProgressLogger) RunStarted(totalActions int) error {
	return p.Log(EventRunStarted, map[string]interface{}{
		"total_actions": totalActions,
	})
}

// ActionStarted logs an action_started event.
func (p *ProgressLogger) ActionStarted(num int, label string) error {
	return p.Log(EventActionStarted, map[string]interface{}{
		"num":    num,
		"action": label,
	})
}

// ActionCompleted logs an action_completed event.
func (p *ProgressLogger) ActionCompleted(label string) error {
	return p.Log(EventActionCompleted, map[string]interface{}{
		"action": label,
	})
}

// ActionFailed logs an action_failed event.
func (p *ProgressLogger) ActionFailed(label string, err error) error {
	return p.Log(EventActionFailed, map[string]interface{}{
		"action": label,
		"error":  err.Error(),
	})
}

// RunCompleted logs a run_completed event with summary statistics.
func (p *ProgressLogger) RunCompleted(totalActions int, duration time.Duration) error {
	return p.Log(EventRunCompleted, map[string]interface{}{
		"total_actions": totalActions,
		"duration_ms":   duration.Milliseconds(),
	})
}

// RunCancelled logs a run_cancelled event.
func (p *ProgressLogger) RunCancelled(lastAction string) error {
	return p.Log(EventRunCancelled, map[string]interface{}{
		"last_action": lastAction,
	})
}

// RunFailed logs a run_failed event.
func (p *ProgressLogger) RunFailed(label string, err error) error {
	return p.Log(EventRunFailed, map[string]interface{}{
		"action": label,
		"error":  err.Error(),
	})
}
