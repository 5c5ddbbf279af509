package user

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/souravsatyam/gymapp/internal/api"
	"github.com/souravsatyam/gymapp/internal/session"
)

// Image is one entry in a user's gallery.
type Image struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Client wraps the profile and image endpoints.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Me fetches the logged-in user's profile from the server.
func (c *Client) Me(ctx context.Context) (*session.UserProfile, error) {
	var resp struct {
		LoggedInUser session.UserProfile `json:"loggedInUser"`
	}
	if err := c.api.GetJSON(ctx, "/users/get", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.LoggedInUser, nil
}

// UploadProfileImage replaces the profile picture.
func (c *Client) UploadProfileImage(ctx context.Context, fileName string, file io.Reader) (string, error) {
	var resp struct {
		Status string `json:"status"`
		URL    string `json:"url"`
	}
	err := c.api.PostMultipart(ctx, "/users/uploadProfileImage", nil, "image", fileName, file, &resp)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// UploadImage adds a picture to the user's gallery.
func (c *Client) UploadImage(ctx context.Context, fileName string, file io.Reader) error {
	return c.api.PostMultipart(ctx, "/users/uploadImage", nil, "image", fileName, file, nil)
}

// Images lists one page of a user's gallery.
func (c *Client) Images(ctx context.Context, userID int64, page int) ([]Image, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var resp struct {
		Status string  `json:"status"`
		Images []Image `json:"images"`
	}
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/users/getImage/%d", userID), query, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}
