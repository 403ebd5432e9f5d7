package runner

import (
	"context"

	"github.com/cvptools/cvpctl/internal/cvp"
)

// API is the slice of the CVP client the runner drives. *cvp.Client
// satisfies it; tests substitute a recording fake.
type API interface {
	ContainerByName(ctx context.Context, name string) (*cvp.Container, error)
	AddContainer(ctx context.Context, name string, parent *cvp.Container) error
	DeleteContainer(ctx context.Context, container *cvp.Container) error
	DevicesInContainer(ctx context.Context, container *cvp.Container) ([]cvp.Device, error)
	MoveDeviceToContainer(ctx context.Context, device *cvp.Device, container *cvp.Container) ([]string, error)

	Inventory(ctx context.Context) ([]cvp.Device, error)

	ConfigletByName(ctx context.Context, name string) (*cvp.Configlet, error)
	AddConfiglet(ctx context.Context, name, config string) (string, error)
	UpdateConfiglet(ctx context.Context, configlet *cvp.Configlet, config string) ([]string, error)
	DeleteConfiglet(ctx context.Context, configlet *cvp.Configlet) error
	AppliedDevices(ctx context.Context, name string) ([]cvp.Device, error)
	ApplyConfigletsToDevice(ctx context.Context, device *cvp.Device, configlets []cvp.Configlet) ([]string, error)
	RemoveConfigletsFromDevice(ctx context.Context, device *cvp.Device, configlets []cvp.Configlet) ([]string, error)

	TaskByID(ctx context.Context, id string) (*cvp.Task, error)
	ExecuteTask(ctx context.Context, id string) error
	PendingTasks(ctx context.Context) ([]cvp.Task, error)
	CreateChangeControl(ctx context.Context, cc *cvp.ChangeControl) (string, error)
}

var _ API = (*cvp.Client)(nil)
