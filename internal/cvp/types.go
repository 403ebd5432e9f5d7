package cvp

import "strings"

// Container is a node in the provisioning topology tree.
type Container struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ParentKey string `json:"parentContainerId,omitempty"`
}

// Device is an inventory entry. A device may be known under its FQDN, its
// short hostname, or its serial number depending on how it was provisioned.
type Device struct {
	Fqdn               string `json:"fqdn"`
	Hostname           string `json:"hostname"`
	SerialNumber       string `json:"serialNumber"`
	SystemMac          string `json:"systemMacAddress"`
	IPAddress          string `json:"ipAddress"`
	ContainerName      string `json:"containerName"`
	ParentContainerKey string `json:"parentContainerKey"`
}

// Matches reports whether name identifies this device by FQDN, short
// hostname, or the host part of the FQDN.
func (d *Device) Matches(name string) bool {
	if d.Fqdn == name || d.Hostname == name {
		return true
	}
	host, _, ok := strings.Cut(d.Fqdn, ".")
	return ok && host == name
}

// Configlet is a named block of CLI configuration stored on the server.
type Configlet struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Config     string `json:"config"`
	Type       string `json:"type,omitempty"`
	Reconciled bool   `json:"reconciled,omitempty"`
}

// TaskStatus is the lifecycle state of a server-side work order.
type TaskStatus string

// Task statuses reported by the server. Anything not listed here is treated
// as still in flight.
const (
	TaskActive     TaskStatus = "ACTIVE"
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Terminal reports whether the status will never change again.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled, "CANCELED":
		return true
	}
	return false
}

// Failure reports whether the status is terminal and unsuccessful.
func (s TaskStatus) Failure() bool {
	return s.Terminal() && s != TaskCompleted
}

// Task is a server-side work order spawned by a provisioning change.
type Task struct {
	ID          string     `json:"workOrderId"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"taskStatus"`
}

// ChangeControlTask places one task inside a change control with its
// execution order. Tasks sharing an order value run in parallel.
type ChangeControlTask struct {
	TaskID              string `json:"taskId"`
	TaskOrder           int    `json:"taskOrder"`
	SnapshotTemplateKey string `json:"snapshotTemplateKey"`
}

// ChangeControl groups pending tasks for scheduled, ordered execution.
type ChangeControl struct {
	Name              string              `json:"changeControlName"`
	Type              string              `json:"changeControlType"`
	DateTime          string              `json:"dateTime"`
	Timezone          string              `json:"timeZone"`
	CountryID         string              `json:"countryId"`
	StopOnError       string              `json:"stopOnError"`
	ScheduleExecution string              `json:"schedulingExecution"`
	Tasks             []ChangeControlTask `json:"changeControlTasks"`
}
