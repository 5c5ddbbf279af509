package booking

import (
	"context"
	"errors"

	"github.com/souravsatyam/gymapp/internal/api"
)

var ErrOrderRejected = errors.New("payment order was not created")

// Client wraps the booking and buddy endpoints.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// InitiateOrder creates a payment order with the gateway via the backend.
func (c *Client) InitiateOrder(ctx context.Context, amount float64, receipt string) (*PaymentOrder, error) {
	var resp struct {
		Status string       `json:"status"`
		Order  PaymentOrder `json:"order"`
	}
	err := c.api.PostJSON(ctx, "/booking/initiate", map[string]interface{}{
		"amount":  amount,
		"receipt": receipt,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Order.ID == "" {
		return nil, ErrOrderRejected
	}
	return &resp.Order, nil
}

// Create submits the booking request and returns the server's
// confirmation, including the server-assigned booking id.
func (c *Client) Create(ctx context.Context, req Request) (*Booking, error) {
	var resp struct {
		Status  string  `json:"status"`
		Booking Booking `json:"booking"`
	}
	if err := c.api.PostJSON(ctx, "/booking/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

// List returns the user's bookings from the server.
func (c *Client) List(ctx context.Context) ([]Booking, error) {
	var resp struct {
		Status   string    `json:"status"`
		Bookings []Booking `json:"bookings"`
	}
	if err := c.api.GetJSON(ctx, "/booking/get", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// SendBuddyInvite invites a friend to join a confirmed booking.
func (c *Client) SendBuddyInvite(ctx context.Context, toUserID, bookingID int64) error {
	return c.api.PostJSON(ctx, "/buddy/send", map[string]int64{
		"toUserId":  toUserID,
		"bookingId": bookingID,
	}, nil)
}
