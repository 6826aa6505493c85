package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListTaxonomy returns taxonomy rows for the given kind.
func (c *Client) ListTaxonomy(ctx context.Context, kind string, q TaxonomyQuery) ([]TaxonomyEntry, error) {
	params := QueryParams{}
	if q.IncludeInactive {
		params["include_inactive"] = "true"
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Offset > 0 {
		params["offset"] = strconv.Itoa(q.Offset)
	}
	data, err := c.get(ctx, buildQuery(fmt.Sprintf("/api/taxonomy/%s", url.PathEscape(kind)), params))
	if err != nil {
		return nil, err
	}
	return decodeList[TaxonomyEntry](data)
}
