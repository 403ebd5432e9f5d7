// Package action defines the provisioning task descriptors cvpctl executes.
//
// A task file is a JSON array of descriptors. Each descriptor names a
// (type, action) pair plus the fields that pair needs; the pair table here
// is the single source of truth for what is dispatchable, so an unsupported
// pair is rejected before anything touches the network.
package action

import (
	"fmt"
	"path/filepath"
)

// Kind is the descriptor's target entity type.
type Kind string

// Op is the operation applied to the target entity.
type Op string

const (
	KindContainer     Kind = "container"
	KindConfiglet     Kind = "configlet"
	KindChangeControl Kind = "change-control"
)

const (
	OpCreate        Op = "create"
	OpDestroy       Op = "destroy"
	OpAttachDevice  Op = "attach-device"
	OpAdd           Op = "add"
	OpUpdate        Op = "update"
	OpDelete        Op = "delete"
	OpAddDevices    Op = "add-devices"
	OpRemoveDevices Op = "remove-devices"

	// OpNone covers change-control descriptors written without an action.
	OpNone Op = ""
)

// Change control ordering modes.
const (
	ModeLinear      = "linear"
	ModeIncremental = "incremental"
)

// DefaultParent is the topology root containers are created under when the
// descriptor names no parent.
const DefaultParent = "Tenant"

// Key identifies one dispatchable (type, action) pair.
type Key struct {
	Kind Kind
	Op   Op
}

// Action is one entry of a task file.
type Action struct {
	Name      string   `json:"name"`
	Type      Kind     `json:"type"`
	Action    Op       `json:"action"`
	Container string   `json:"container,omitempty"`
	Parent    string   `json:"parent,omitempty"`
	Configlet string   `json:"configlet,omitempty"`
	Apply     bool     `json:"apply,omitempty"`
	Devices   []string `json:"devices,omitempty"`
	Schedule  string   `json:"schedule,omitempty"`
	SnapID    string   `json:"snapid,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
	Country   string   `json:"country,omitempty"`
	Mode      string   `json:"mode,omitempty"`
}

// fields records which descriptor fields a pair requires.
type fields struct {
	container bool
	configlet bool
	devices   bool
}

var table = map[Key]fields{
	{KindContainer, OpCreate}:        {container: true},
	{KindContainer, OpDestroy}:       {container: true},
	{KindContainer, OpAttachDevice}:  {container: true, devices: true},
	{KindConfiglet, OpAdd}:           {configlet: true},
	{KindConfiglet, OpUpdate}:        {configlet: true},
	{KindConfiglet, OpDelete}:        {configlet: true},
	{KindConfiglet, OpAddDevices}:    {configlet: true, devices: true},
	{KindConfiglet, OpRemoveDevices}: {configlet: true, devices: true},
	{KindChangeControl, OpNone}:      {},
	{KindChangeControl, OpCreate}:    {},
}

// Key returns the dispatch key for this action.
func (a *Action) Key() Key {
	return Key{Kind: a.Type, Op: a.Action}
}

// Validate checks that the pair is dispatchable and that the fields the pair
// requires are present.
func (a *Action) Validate() error {
	req, ok := table[a.Key()]
	if !ok {
		return fmt.Errorf("task %q: unknown type/action pair %q/%q", a.Name, a.Type, a.Action)
	}
	if req.container && a.Container == "" {
		return fmt.Errorf("task %q: missing container name", a.Name)
	}
	if req.configlet && a.Configlet == "" {
		return fmt.Errorf("task %q: missing configlet file", a.Name)
	}
	if req.devices && len(a.Devices) == 0 {
		return fmt.Errorf("task %q: missing device list", a.Name)
	}
	switch a.Mode {
	case "", ModeLinear, ModeIncremental:
	default:
		return fmt.Errorf("task %q: unknown change control mode %q", a.Name, a.Mode)
	}
	return nil
}

// ParentOrDefault returns the parent container name for a create, falling
// back to the topology root.
func (a *Action) ParentOrDefault() string {
	if a.Parent != "" {
		return a.Parent
	}
	return DefaultParent
}

// ConfigletName derives the server-side configlet name from the configured
// file path. The base name is used as-is, extension included.
func (a *Action) ConfigletName() string {
	return filepath.Base(a.Configlet)
}

// Label is a short identifier for logs and the monitor view.
func (a *Action) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Action == OpNone {
		return string(a.Type)
	}
	return fmt.Sprintf("%s %s", a.Type, a.Action)
}
