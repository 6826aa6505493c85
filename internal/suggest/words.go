package suggest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultWordLimit caps lookups when no limit is given.
const DefaultWordLimit = 20

// wordEntry is what the trie stores per lowercased key.
type wordEntry struct {
	name  string
	count int
}

// Words is a case-insensitive prefix index over a word list.
type Words struct {
	trie  *patricia.Trie
	size  int
	limit int
}

// NewWords indexes items. Items may carry an integer "count" in Meta used
// for ranking; the first spelling of a word wins.
func NewWords(items []Item, limit int) *Words {
	if limit <= 0 {
		limit = DefaultWordLimit
	}
	w := &Words{trie: patricia.NewTrie(), limit: limit}
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		if w.trie.Insert(patricia.Prefix(strings.ToLower(name)), wordEntry{name: name, count: metaCount(it.Meta)}) {
			w.size++
		}
	}
	return w
}

// LoadWords reads one word per line, optionally followed by a count.
// Blank lines and lines starting with # are skipped.
func LoadWords(r io.Reader, limit int) (*Words, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		item := Item{Name: fields[0]}
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid count %q", line, fields[1])
			}
			item.Meta = map[string]any{"count": n}
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}
	return NewWords(items, limit), nil
}

// LoadWordsFile opens path and loads it with LoadWords.
func LoadWordsFile(path string, limit int) (*Words, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open words: %w", err)
	}
	defer f.Close()
	return LoadWords(f, limit)
}

// Len returns the number of indexed words.
func (w *Words) Len() int {
	return w.size
}

// Suggest returns words starting with query, most frequent first.
func (w *Words) Suggest(ctx context.Context, query string) ([]Item, error) {
	prefix := strings.ToLower(strings.TrimSpace(query))
	if prefix == "" {
		return nil, nil
	}
	var found []wordEntry
	err := w.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry, ok := item.(wordEntry); ok {
			found = append(found, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].count != found[j].count {
			return found[i].count > found[j].count
		}
		return found[i].name < found[j].name
	})
	if len(found) > w.limit {
		found = found[:w.limit]
	}
	out := make([]Item, 0, len(found))
	for _, f := range found {
		out = append(out, Item{Name: f.name, Meta: map[string]any{"count": f.count}})
	}
	return out, nil
}

// Func adapts the index to a suggestion source.
func (w *Words) Func() Func {
	return w.Suggest
}

func metaCount(meta map[string]any) int {
	switch v := meta["count"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
