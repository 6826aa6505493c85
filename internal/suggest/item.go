// Package suggest holds the records a multi-select field works with and the
// sources that produce suggestions for a query.
package suggest

import "context"

// Item is a named value offered as a suggestion or held as a selection.
// Name is the case-sensitive identity; Meta is carried along untouched.
type Item struct {
	Name string         `json:"name" yaml:"name"`
	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Func fetches suggestions for a non-empty query. Implementations should
// return promptly once ctx is cancelled.
type Func func(ctx context.Context, query string) ([]Item, error)

// Named builds items from bare names.
func Named(names ...string) []Item {
	items := make([]Item, 0, len(names))
	for _, n := range names {
		items = append(items, Item{Name: n})
	}
	return items
}

// Names returns the names of items, in order.
func Names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// Find returns the first item with the given name.
func Find(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// Exclude returns items whose names are not taken by any of the taken items.
func Exclude(items, taken []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		seen[t.Name] = struct{}{}
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

// dedupe drops later items whose name already appeared.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it)
	}
	return out
}
