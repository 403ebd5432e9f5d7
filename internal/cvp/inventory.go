package cvp

import (
	"context"
	"fmt"
)

// Inventory returns every device registered with the server.
func (c *Client) Inventory(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.get(ctx, "/cvpservice/inventory/devices", nil, &devices); err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	return devices, nil
}

// DeviceByHostname finds one inventory entry by FQDN or hostname. The
// inventory endpoint has no name filter, so this fetches and scans it.
func (c *Client) DeviceByHostname(ctx context.Context, name string) (*Device, error) {
	devices, err := c.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].Matches(name) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("device %q: %w", name, ErrNotFound)
}
