package api

import "context"

// Login exchanges a username for an API key.
func (c *Client) Login(ctx context.Context, username string) (*LoginResponse, error) {
	data, err := c.post(ctx, "/api/keys/login", LoginInput{Username: username})
	if err != nil {
		return nil, err
	}
	return decodeOne[LoginResponse](data)
}
