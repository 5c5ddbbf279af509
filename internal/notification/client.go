package notification

import (
	"context"
	"time"

	"github.com/souravsatyam/gymapp/internal/api"
)

// Notification is one row in the notifications list.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context) ([]Notification, error) {
	var resp struct {
		Status        string         `json:"status"`
		Notifications []Notification `json:"notifications"`
	}
	if err := c.api.GetJSON(ctx, "/notifications/get", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}
