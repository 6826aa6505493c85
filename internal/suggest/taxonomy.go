package suggest

import (
	"context"
	"strings"

	"github.com/gravitrone/tagpick/internal/api"
)

// TaxonomyLister is the slice of the API client a taxonomy source needs.
type TaxonomyLister interface {
	ListTaxonomy(ctx context.Context, kind string, q api.TaxonomyQuery) ([]api.TaxonomyEntry, error)
}

// Taxonomy searches the active entries of a taxonomy kind (tags, scopes).
// Entry ids, descriptions and usage counts ride along in Meta.
func Taxonomy(client TaxonomyLister, kind string, limit int) Func {
	return func(ctx context.Context, query string) ([]Item, error) {
		entries, err := client.ListTaxonomy(ctx, kind, api.TaxonomyQuery{
			Search: strings.TrimSpace(query),
			Limit:  limit,
		})
		if err != nil {
			return nil, err
		}
		out := make([]Item, 0, len(entries))
		for _, e := range entries {
			if !e.IsActive || strings.TrimSpace(e.Name) == "" {
				continue
			}
			meta := map[string]any{"id": e.ID}
			if e.Description != nil && *e.Description != "" {
				meta["description"] = *e.Description
			}
			if e.UsageCount > 0 {
				meta["count"] = e.UsageCount
			}
			out = append(out, Item{Name: e.Name, Meta: meta})
		}
		return dedupe(out), nil
	}
}
