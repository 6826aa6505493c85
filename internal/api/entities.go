package api

import (
	"context"
	"fmt"
	"net/url"
)

// --- Entity Methods ---

func (c *Client) GetEntity(ctx context.Context, id string) (*Entity, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/entities/%s", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Entity](data)
}

func (c *Client) UpdateEntity(ctx context.Context, id string, input UpdateEntityInput) (*Entity, error) {
	data, err := c.patch(ctx, fmt.Sprintf("/api/entities/%s", url.PathEscape(id)), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Entity](data)
}

// SetEntityTags replaces the tag list of an entity.
func (c *Client) SetEntityTags(ctx context.Context, id string, tags []string) (*Entity, error) {
	if tags == nil {
		tags = []string{}
	}
	return c.UpdateEntity(ctx, id, UpdateEntityInput{Tags: &tags})
}
