package api

import (
	"context"

	"github.com/altinukshini/jobs-tui/internal/model"
)

func (c *Client) GetSettings(ctx context.Context) (model.ConnectionSettings, error) {
	var s model.ConnectionSettings
	if err := c.Get(ctx, "load settings", "settings", &s); err != nil {
		return model.ConnectionSettings{}, err
	}
	return s, nil
}

// SaveSettings posts the edit. The token is omitted from the body when
// empty so the back end keeps the stored secret.
func (c *Client) SaveSettings(ctx context.Context, edit model.PendingConnectionEdit) (model.ConnectionSettings, error) {
	var resp model.SaveSettingsResponse
	if err := c.Post(ctx, "save settings", "settings", edit, &resp); err != nil {
		return model.ConnectionSettings{}, err
	}
	return resp.Config, nil
}
