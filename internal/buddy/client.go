package buddy

import (
	"context"
	"net/url"
	"strconv"

	"github.com/souravsatyam/gymapp/internal/api"
)

// Client wraps the nearby-users, search, and friends endpoints.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Nearby lists users around the given coordinates.
func (c *Client) Nearby(ctx context.Context, lat, long float64) ([]Candidate, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("long", strconv.FormatFloat(long, 'f', -1, 64))

	var candidates []Candidate
	if err := c.api.GetJSON(ctx, "/users/nearby-users", query, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// Search finds users by free text.
func (c *Client) Search(ctx context.Context, text string) ([]Candidate, error) {
	var candidates []Candidate
	if err := c.api.GetJSON(ctx, "/users/search/"+url.PathEscape(text), nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// SendRequest sends a friend request to a user.
func (c *Client) SendRequest(ctx context.Context, userID int64) error {
	return c.api.PostJSON(ctx, "/friends/add", map[string]int64{"userId": userID}, nil)
}

// Accept accepts an incoming friend request.
func (c *Client) Accept(ctx context.Context, requestID int64) error {
	return c.api.PostJSON(ctx, "/friends/accept", map[string]int64{"requestId": requestID}, nil)
}

// Reject declines an incoming friend request.
func (c *Client) Reject(ctx context.Context, requestID int64) error {
	return c.api.PostJSON(ctx, "/friends/reject", map[string]int64{"requestId": requestID}, nil)
}

// Friends lists current friends and pending requests.
func (c *Client) Friends(ctx context.Context) ([]FriendRequest, error) {
	var friends []FriendRequest
	if err := c.api.GetJSON(ctx, "/friends/get", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}
