package runner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/cvp"
)

func readConfigletFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read configlet file: %w", err)
	}
	return string(data), nil
}

// addConfiglet uploads the configlet file. When a configlet with that name
// already exists the operation falls back to an update, so task files stay
// re-runnable.
func (r *Runner) addConfiglet(ctx context.Context, act *action.Action) error {
	name := act.ConfigletName()
	existing, err := r.api.ConfigletByName(ctx, name)
	if err == nil {
		r.log.Warn("configlet already exists, updating instead", zap.String("configlet", name))
		return r.pushExisting(ctx, act, existing)
	}
	if !errors.Is(err, cvp.ErrNotFound) {
		return err
	}
	return r.createNew(ctx, act)
}

// updateConfiglet replaces the stored content. When the configlet does not
// exist yet the operation falls back to an add.
func (r *Runner) updateConfiglet(ctx context.Context, act *action.Action) error {
	name := act.ConfigletName()
	existing, err := r.api.ConfigletByName(ctx, name)
	if errors.Is(err, cvp.ErrNotFound) {
		r.log.Warn("configlet does not exist, adding instead", zap.String("configlet", name))
		return r.createNew(ctx, act)
	}
	if err != nil {
		return err
	}
	return r.pushExisting(ctx, act, existing)
}

// createNew uploads the configlet for the first time and applies it to any
// devices listed on the descriptor.
func (r *Runner) createNew(ctx context.Context, act *action.Action) error {
	name := act.ConfigletName()
	config, err := readConfigletFile(act.Configlet)
	if err != nil {
		return err
	}

	key, err := r.api.AddConfiglet(ctx, name, config)
	if err != nil {
		return err
	}
	r.log.Info("configlet added",
		zap.String("configlet", name),
		zap.String("key", key))

	created := &cvp.Configlet{Key: key, Name: name, Config: config}
	return r.attachConfiglet(ctx, act, created)
}

// pushExisting replaces an existing configlet's content, drives the spawned
// tasks, then applies it to any devices listed on the descriptor.
func (r *Runner) pushExisting(ctx context.Context, act *action.Action, existing *cvp.Configlet) error {
	config, err := readConfigletFile(act.Configlet)
	if err != nil {
		return err
	}

	taskIDs, err := r.api.UpdateConfiglet(ctx, existing, config)
	if err != nil {
		return err
	}
	r.log.Info("configlet updated",
		zap.String("configlet", existing.Name),
		zap.Strings("task_ids", taskIDs))
	if err := r.runTasks(ctx, act, taskIDs); err != nil {
		return err
	}
	return r.attachConfiglet(ctx, act, existing)
}

// attachConfiglet applies the configlet to the devices listed on the
// descriptor, if any.
func (r *Runner) attachConfiglet(ctx context.Context, act *action.Action, cfg *cvp.Configlet) error {
	if len(act.Devices) == 0 {
		return nil
	}
	return r.applyToDevices(ctx, act, cfg, act.Devices)
}

// applyToDevices applies the configlet to each named device, resolving
// names against the inventory once.
func (r *Runner) applyToDevices(ctx context.Context, act *action.Action, cfg *cvp.Configlet, names []string) error {
	inventory, err := r.api.Inventory(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		device := findDevice(inventory, name)
		if device == nil {
			return fmt.Errorf("device %q not found in inventory", name)
		}

		taskIDs, err := r.api.ApplyConfigletsToDevice(ctx, device, []cvp.Configlet{*cfg})
		if err != nil {
			return err
		}
		r.log.Info("configlet applied",
			zap.String("configlet", cfg.Name),
			zap.String("device", name),
			zap.Strings("task_ids", taskIDs))
		if err := r.runTasks(ctx, act, taskIDs); err != nil {
			return err
		}
	}
	return nil
}

// deleteConfiglet removes the configlet from the server, detaching it from
// every device it is still applied to first. Detach tasks always execute;
// the server refuses to delete a configlet that is still applied.
func (r *Runner) deleteConfiglet(ctx context.Context, act *action.Action) error {
	name := act.ConfigletName()
	cfg, err := r.api.ConfigletByName(ctx, name)
	if errors.Is(err, cvp.ErrNotFound) {
		r.log.Info("configlet already absent", zap.String("configlet", name))
		return nil
	}
	if err != nil {
		return err
	}

	applied, err := r.api.AppliedDevices(ctx, name)
	if err != nil {
		return err
	}
	for i := range applied {
		taskIDs, err := r.api.RemoveConfigletsFromDevice(ctx, &applied[i], []cvp.Configlet{*cfg})
		if err != nil {
			return err
		}
		r.log.Info("configlet detached",
			zap.String("configlet", name),
			zap.String("device", applied[i].Fqdn),
			zap.Strings("task_ids", taskIDs))
		for _, id := range taskIDs {
			if err := r.ExecuteAndWait(ctx, id); err != nil {
				return err
			}
		}
	}

	if err := r.api.DeleteConfiglet(ctx, cfg); err != nil {
		return err
	}
	r.log.Info("configlet deleted", zap.String("configlet", name))
	return nil
}

// addConfigletDevices applies an existing configlet to more devices.
func (r *Runner) addConfigletDevices(ctx context.Context, act *action.Action) error {
	cfg, err := r.api.ConfigletByName(ctx, act.ConfigletName())
	if err != nil {
		return err
	}
	return r.applyToDevices(ctx, act, cfg, act.Devices)
}

// removeConfigletDevices detaches an existing configlet from devices.
func (r *Runner) removeConfigletDevices(ctx context.Context, act *action.Action) error {
	cfg, err := r.api.ConfigletByName(ctx, act.ConfigletName())
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

		taskIDs, err := r.api.RemoveConfigletsFromDevice(ctx, device, []cvp.Configlet{*cfg})
		if err != nil {
			return err
		}
		r.log.Info("configlet removed from device",
			zap.String("configlet", cfg.Name),
			zap.String("device", name),
			zap.Strings("task_ids", taskIDs))
		if err := r.runTasks(ctx, act, taskIDs); err != nil {
			return err
		}
	}
	return nil
}
