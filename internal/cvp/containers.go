package cvp

import (
	"context"
	"fmt"
	"net/url"
)

type searchTopologyResponse struct {
	ContainerList []Container `json:"containerList"`
}

// ContainerByName finds a container by exact name, or ErrNotFound. The
// topology search matches substrings, so results are filtered here.
func (c *Client) ContainerByName(ctx context.Context, name string) (*Container, error) {
	q := url.Values{}
	q.Set("queryparam", name)
	q.Set("startIndex", "0")
	q.Set("endIndex", "0")

	var resp searchTopologyResponse
	if err := c.get(ctx, "/cvpservice/provisioning/searchTopology.do", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to search for container %q: %w", name, err)
	}
	for i := range resp.ContainerList {
		if resp.ContainerList[i].Name == name {
			return &resp.ContainerList[i], nil
		}
	}
	return nil, fmt.Errorf("container %q: %w", name, ErrNotFound)
}

type addContainerRequest struct {
	Name       string `json:"containerName"`
	ParentName string `json:"parentName"`
	ParentKey  string `json:"parentKey"`
}

// AddContainer creates a container under the given parent.
func (c *Client) AddContainer(ctx context.Context, name string, parent *Container) error {
	payload := addContainerRequest{Name: name, ParentName: parent.Name, ParentKey: parent.Key}
	if err := c.post(ctx, "/cvpservice/provisioning/addContainer.do", payload, nil); err != nil {
		return fmt.Errorf("failed to add container %q: %w", name, err)
	}
	return nil
}

type deleteContainerRequest struct {
	Key  string `json:"containerKey"`
	Name string `json:"containerName"`
}

// DeleteContainer removes a container from the topology. The server rejects
// the call for containers that still hold devices; callers check first.
func (c *Client) DeleteContainer(ctx context.Context, container *Container) error {
	payload := deleteContainerRequest{Key: container.Key, Name: container.Name}
	if err := c.post(ctx, "/cvpservice/provisioning/deleteContainer.do", payload, nil); err != nil {
		return fmt.Errorf("failed to delete container %q: %w", container.Name, err)
	}
	return nil
}

type containerDevicesResponse struct {
	Data []Device `json:"data"`
}

// DevicesInContainer lists the devices currently attached to a container.
func (c *Client) DevicesInContainer(ctx context.Context, container *Container) ([]Device, error) {
	q := url.Values{}
	q.Set("containerId", container.Key)

	var resp containerDevicesResponse
	if err := c.get(ctx, "/cvpservice/provisioning/getDevicesInContainer.do", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to list devices in container %q: %w", container.Name, err)
	}
	return resp.Data, nil
}

type moveDeviceRequest struct {
	DeviceKey     string `json:"deviceKey"`
	DeviceFqdn    string `json:"deviceFqdn"`
	ContainerKey  string `json:"containerKey"`
	ContainerName string `json:"containerName"`
}

// MoveDeviceToContainer attaches a device to a container and returns the IDs
// of the tasks the move spawned.
func (c *Client) MoveDeviceToContainer(ctx context.Context, device *Device, container *Container) ([]string, error) {
	payload := moveDeviceRequest{
		DeviceKey:     device.SystemMac,
		DeviceFqdn:    device.Fqdn,
		ContainerKey:  container.Key,
		ContainerName: container.Name,
	}
	var resp taskIDsResponse
	if err := c.post(ctx, "/cvpservice/provisioning/moveDevice.do", payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to move device %q to container %q: %w", device.Fqdn, container.Name, err)
	}
	return resp.Data.TaskIDs, nil
}
