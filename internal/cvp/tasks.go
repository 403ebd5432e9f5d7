package cvp

import (
	"context"
	"fmt"
	"net/url"
)

// TaskByID fetches the current state of one work order.
func (c *Client) TaskByID(ctx context.Context, id string) (*Task, error) {
	q := url.Values{}
	q.Set("taskId", id)

	var t Task
	if err := c.get(ctx, "/cvpservice/task/getTaskById.do", q, &t); err != nil {
		return nil, fmt.Errorf("failed to fetch task %s: %w", id, err)
	}
	return &t, nil
}

type executeTaskRequest struct {
	Data []string `json:"data"`
}

// ExecuteTask asks the server to start executing a pending task. Completion
// is observed by polling TaskByID.
func (c *Client) ExecuteTask(ctx context.Context, id string) error {
	payload := executeTaskRequest{Data: []string{id}}
	if err := c.post(ctx, "/cvpservice/task/executeTask.do", payload, nil); err != nil {
		return fmt.Errorf("failed to execute task %s: %w", id, err)
	}
	return nil
}

type taskListResponse struct {
	Data  []Task `json:"data"`
	Total int    `json:"total"`
}

// PendingTasks lists the work orders waiting for execution.
func (c *Client) PendingTasks(ctx context.Context) ([]Task, error) {
	q := url.Values{}
	q.Set("queryparam", "Pending")
	q.Set("startIndex", "0")
	q.Set("endIndex", "0")

	var resp taskListResponse
	if err := c.get(ctx, "/cvpservice/task/getTasks.do", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}
	return resp.Data, nil
}
