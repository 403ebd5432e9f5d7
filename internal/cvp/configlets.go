package cvp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ConfigletByName fetches a configlet by exact name, or ErrNotFound.
func (c *Client) ConfigletByName(ctx context.Context, name string) (*Configlet, error) {
	q := url.Values{}
	q.Set("name", name)

	var cfg Configlet
	if err := c.get(ctx, "/cvpservice/configlet/getConfigletByName.do", q, &cfg); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("configlet %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch configlet %q: %w", name, err)
	}
	return &cfg, nil
}

type configletListResponse struct {
	Data  []Configlet `json:"data"`
	Total int         `json:"total"`
}

// Configlets lists every configlet stored on the server.
func (c *Client) Configlets(ctx context.Context) ([]Configlet, error) {
	q := url.Values{}
	q.Set("startIndex", "0")
	q.Set("endIndex", "0")

	var resp configletListResponse
	if err := c.get(ctx, "/cvpservice/configlet/getConfiglets.do", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to list configlets: %w", err)
	}
	return resp.Data, nil
}

type addConfigletRequest struct {
	Name   string `json:"name"`
	Config string `json:"config"`
}

type addConfigletResponse struct {
	Data string `json:"data"`
}

// AddConfiglet creates a static configlet and returns its key.
func (c *Client) AddConfiglet(ctx context.Context, name, config string) (string, error) {
	payload := addConfigletRequest{Name: name, Config: config}
	var resp addConfigletResponse
	if err := c.post(ctx, "/cvpservice/configlet/addConfiglet.do", payload, &resp); err != nil {
		return "", fmt.Errorf("failed to add configlet %q: %w", name, err)
	}
	return resp.Data, nil
}

type updateConfigletRequest struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Config string `json:"config"`
}

// UpdateConfiglet replaces a configlet's content and returns the IDs of the
// tasks spawned for devices the configlet is applied to.
func (c *Client) UpdateConfiglet(ctx context.Context, configlet *Configlet, config string) ([]string, error) {
	payload := updateConfigletRequest{Key: configlet.Key, Name: configlet.Name, Config: config}
	var resp taskIDsResponse
	if err := c.post(ctx, "/cvpservice/configlet/updateConfiglet.do", payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to update configlet %q: %w", configlet.Name, err)
	}
	return resp.Data.TaskIDs, nil
}

type deleteConfigletRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// DeleteConfiglet removes a configlet. The server rejects the call while the
// configlet is still applied to a device; callers detach first.
func (c *Client) DeleteConfiglet(ctx context.Context, configlet *Configlet) error {
	payload := deleteConfigletRequest{Key: configlet.Key, Name: configlet.Name}
	if err := c.post(ctx, "/cvpservice/configlet/deleteConfiglet.do", payload, nil); err != nil {
		return fmt.Errorf("failed to delete configlet %q: %w", configlet.Name, err)
	}
	return nil
}

type appliedDevicesResponse struct {
	Data []Device `json:"data"`
}

// AppliedDevices lists the devices a configlet is currently applied to.
func (c *Client) AppliedDevices(ctx context.Context, name string) ([]Device, error) {
	q := url.Values{}
	q.Set("configletName", name)

	var resp appliedDevicesResponse
	if err := c.get(ctx, "/cvpservice/configlet/getAppliedDevices.do", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to list devices for configlet %q: %w", name, err)
	}
	return resp.Data, nil
}

type configletRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type deviceConfigletsRequest struct {
	DeviceKey  string         `json:"deviceKey"`
	DeviceFqdn string         `json:"deviceFqdn"`
	Configlets []configletRef `json:"configlets"`
}

func configletRefs(configlets []Configlet) []configletRef {
	refs := make([]configletRef, 0, len(configlets))
	for _, cfg := range configlets {
		refs = append(refs, configletRef{Key: cfg.Key, Name: cfg.Name})
	}
	return refs
}

// ApplyConfigletsToDevice attaches configlets to a device and returns the
// IDs of the tasks spawned to push the config.
func (c *Client) ApplyConfigletsToDevice(ctx context.Context, device *Device, configlets []Configlet) ([]string, error) {
	payload := deviceConfigletsRequest{
		DeviceKey:  device.SystemMac,
		DeviceFqdn: device.Fqdn,
		Configlets: configletRefs(configlets),
	}
	var resp taskIDsResponse
	if err := c.post(ctx, "/cvpservice/provisioning/applyConfiglets.do", payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to apply configlets to device %q: %w", device.Fqdn, err)
	}
	return resp.Data.TaskIDs, nil
}

// RemoveConfigletsFromDevice detaches configlets from a device and returns
// the IDs of the tasks spawned to remove the config.
func (c *Client) RemoveConfigletsFromDevice(ctx context.Context, device *Device, configlets []Configlet) ([]string, error) {
	payload := deviceConfigletsRequest{
		DeviceKey:  device.SystemMac,
		DeviceFqdn: device.Fqdn,
		Configlets: configletRefs(configlets),
	}
	var resp taskIDsResponse
	if err := c.post(ctx, "/cvpservice/provisioning/removeConfiglets.do", payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to remove configlets from device %q: %w", device.Fqdn, err)
	}
	return resp.Data.TaskIDs, nil
}
