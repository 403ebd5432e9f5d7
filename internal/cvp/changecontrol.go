package cvp

import (
	"context"
	"fmt"
)

type changeControlResponse struct {
	Data struct {
		CcID string `json:"ccId"`
	} `json:"data"`
}

// CreateChangeControl registers a change control and returns its ID.
func (c *Client) CreateChangeControl(ctx context.Context, cc *ChangeControl) (string, error) {
	var resp changeControlResponse
	if err := c.post(ctx, "/cvpservice/changeControl/addOrUpdateChangeControl.do", cc, &resp); err != nil {
		return "", fmt.Errorf("failed to create change control %q: %w", cc.Name, err)
	}
	return resp.Data.CcID, nil
}
