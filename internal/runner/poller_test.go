package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

func TestWaitForTaskPollsUntilCompleted(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskActive, cvp.TaskActive, cvp.TaskActive, cvp.TaskCompleted},
		},
	}
	r := newTestRunner(api)

	if err := r.WaitForTask(context.Background(), "42"); err != nil {
		t.Fatalf("failed to wait for task: %v", err)
	}

	// Three in-flight polls plus the terminal one.
	if got := api.count("TaskByID"); got != 4 {
		t.Errorf("expected 4 status calls, got: %d", got)
	}
}

func TestWaitForTaskImmediateCompletion(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskCompleted},
		},
	}
	r := newTestRunner(api)

	if err := r.WaitForTask(context.Background(), "42"); err != nil {
		t.Fatalf("failed to wait for task: %v", err)
	}
	if got := api.count("TaskByID"); got != 1 {
		t.Errorf("expected 1 status call, got: %d", got)
	}
}

func TestWaitForTaskFailure(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskActive, cvp.TaskFailed},
		},
	}
	r := newTestRunner(api)

	err := r.WaitForTask(context.Background(), "42")
	if err == nil {
		t.Fatal("expected error for failed task, got nil")
	}
	if !strings.Contains(err.Error(), "ended with status FAILED") {
		t.Errorf("expected failure status in error, got: %v", err)
	}
}

func TestWaitForTaskTimeout(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskActive},
		},
	}
	r := newTestRunner(api).WithTaskTimeout(10 * time.Millisecond)

	err := r.WaitForTask(context.Background(), "42")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out waiting for task 42") {
		t.Errorf("expected timeout error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "ACTIVE") {
		t.Errorf("expected last status in error, got: %v", err)
	}
}

func TestWaitForTaskCancelledContext(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskActive},
		},
	}
	r := newTestRunner(api).WithTaskTimeout(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.WaitForTask(ctx, "42")
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestWaitForTaskUnknownStatusKeepsPolling(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskStatus("CONFIG_PUSH_IN_FLIGHT"), cvp.TaskCompleted},
		},
	}
	r := newTestRunner(api)

	if err := r.WaitForTask(context.Background(), "42"); err != nil {
		t.Fatalf("expected unknown status to keep polling, got: %v", err)
	}
	if got := api.count("TaskByID"); got != 2 {
		t.Errorf("expected 2 status calls, got: %d", got)
	}
}

func TestExecuteAndWait(t *testing.T) {
	api := &fakeAPI{
		TaskStatuses: map[string][]cvp.TaskStatus{
			"42": {cvp.TaskActive, cvp.TaskCompleted},
		},
	}
	r := newTestRunner(api)

	if err := r.ExecuteAndWait(context.Background(), "42"); err != nil {
		t.Fatalf("failed to execute and wait: %v", err)
	}
	if got := api.count("ExecuteTask"); got != 1 {
		t.Errorf("expected 1 execute call, got: %d", got)
	}
	if got := api.count("TaskByID"); got != 2 {
		t.Errorf("expected 2 status calls, got: %d", got)
	}
}

func TestRunTasksLeavesTasksPendingWithoutApply(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRunner(api)

	act := &action.Action{Name: "staged", Type: action.KindConfiglet, Action: action.OpUpdate, Configlet: "mgmt.conf"}
	if err := r.runTasks(context.Background(), act, []string{"42", "43"}); err != nil {
		t.Fatalf("failed to run tasks: %v", err)
	}

	if got := api.count("ExecuteTask"); got != 0 {
		t.Errorf("expected no execute calls without apply, got: %d", got)
	}
}

func TestRunTasksExecutesSeriallyWithApply(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRunner(api)

	act := &action.Action{Name: "applied", Type: action.KindConfiglet, Action: action.OpUpdate, Configlet: "mgmt.conf", Apply: true}
	if err := r.runTasks(context.Background(), act, []string{"42", "43"}); err != nil {
		t.Fatalf("failed to run tasks: %v", err)
	}

	if got := api.count("ExecuteTask"); got != 2 {
		t.Errorf("expected 2 execute calls, got: %d", got)
	}
}
