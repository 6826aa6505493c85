package suggest

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Static serves a fixed list. An empty query returns everything; otherwise
// items whose names fuzzily contain the query are returned, closest first.
func Static(items []Item) Func {
	pool := dedupe(append([]Item(nil), items...))
	names := Names(pool)
	return func(_ context.Context, query string) ([]Item, error) {
		q := strings.TrimSpace(query)
		if q == "" {
			return append([]Item(nil), pool...), nil
		}
		ranks := fuzzy.RankFindNormalizedFold(q, names)
		sort.Stable(ranks)
		out := make([]Item, 0, len(ranks))
		for _, r := range ranks {
			out = append(out, pool[r.OriginalIndex])
		}
		return out, nil
	}
}
