package gym

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/souravsatyam/gymapp/internal/api"
)

var ErrGymNotFound = errors.New("gym not found")

// Client wraps the gym directory endpoints.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// FetchPage requests one page of gyms near the given coordinates, filtered
// by free-text search. Zero coordinates mean "no location filter"; the
// server then ranks without distance.
func (c *Client) FetchPage(ctx context.Context, lat, long float64, search string, limit, page int) ([]Gym, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("long", strconv.FormatFloat(long, 'f', -1, 64))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("page", strconv.Itoa(page))
	query.Set("search", search)

	var resp struct {
		Status string `json:"status"`
		Gyms   []Gym  `json:"gyms"`
	}
	if err := c.api.GetJSON(ctx, "/gym/get", query, &resp); err != nil {
		return nil, err
	}

	return resp.Gyms, nil
}

// GetByID fetches the full detail for one gym, slots included. The server
// answers with a one-element results array; an empty array is treated as
// not found instead of panicking on results[0].
func (c *Client) GetByID(ctx context.Context, id int64) (*Gym, error) {
	var resp struct {
		Status  string `json:"status"`
		Results []Gym  `json:"results"`
	}
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/gym/get/%d", id), nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, ErrGymNotFound
	}
	return &resp.Results[0], nil
}
