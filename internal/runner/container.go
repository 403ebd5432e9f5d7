package runner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

// createContainer ensures the named container exists under its parent.
// Creation is idempotent: an existing container is left untouched.
func (r *Runner) createContainer(ctx context.Context, act *action.Action) error {
	if _, err := r.api.ContainerByName(ctx, act.Container); err == nil {
		r.log.Info("container already exists", zap.String("container", act.Container))
		return nil
	} else if !errors.Is(err, cvp.ErrNotFound) {
		return err
	}

	parent, err := r.api.ContainerByName(ctx, act.ParentOrDefault())
	if err != nil {
		return fmt.Errorf("parent container: %w", err)
	}
	if err := r.api.AddContainer(ctx, act.Container, parent); err != nil {
		return err
	}
	r.log.Info("container created",
		zap.String("container", act.Container),
		zap.String("parent", parent.Name))
	return nil
}

// destroyContainer removes the named container. A missing container is a
// no-op; a container that still holds devices is refused.
func (r *Runner) destroyContainer(ctx context.Context, act *action.Action) error {
	container, err := r.api.ContainerByName(ctx, act.Container)
	if errors.Is(err, cvp.ErrNotFound) {
		r.log.Info("container already absent", zap.String("container", act.Container))
		return nil
	}
	if err != nil {
		return err
	}

	devices, err := r.api.DevicesInContainer(ctx, container)
	if err != nil {
		return err
	}
	if len(devices) > 0 {
		return fmt.Errorf("container %q still has %d attached devices", act.Container, len(devices))
	}

	if err := r.api.DeleteContainer(ctx, container); err != nil {
		return err
	}
	r.log.Info("container deleted", zap.String("container", act.Container))
	return nil
}

// attachDevices moves each listed device into the container. With apply the
// tasks each move spawns run before the next device; without it they stay
// pending for a later change control. A device already in the container is
// skipped without a remote write.
func (r *Runner) attachDevices(ctx context.Context, act *action.Action) error {
	container, err := r.api.ContainerByName(ctx, act.Container)
	if err != nil {
		return err
	}

	inventory, err := r.api.Inventory(ctx)
	if err != nil {
		return err
	}

	for _, name := range act.Devices {
		device := findDevice(inventory, name)
		if device == nil {
			return fmt.Errorf("device %q not found in inventory", name)
		}
		if device.ContainerName == container.Name {
			r.log.Warn("device already attached, skipping",
				zap.String("device", name),
				zap.String("container", container.Name))
			continue
		}

		taskIDs, err := r.api.MoveDeviceToContainer(ctx, device, container)
		if err != nil {
			return err
		}
		r.log.Info("device move requested",
			zap.String("device", name),
			zap.String("container", container.Name),
			zap.Strings("task_ids", taskIDs))
		if err := r.runTasks(ctx, act, taskIDs); err != nil {
			return err
		}
	}
	return nil
}

// findDevice returns the inventory entry matching a device name.
func findDevice(inventory []cvp.Device, name string) *cvp.Device {
	for i := range inventory {
		if inventory[i].Matches(name) {
			return &inventory[i]
		}
	}
	return nil
}
