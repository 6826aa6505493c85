package ui

import "github.com/gravitrone/tagpick/internal/suggest"

// selectionStore is the ordered, name-unique list of committed items.
// Every mutation builds a fresh slice so model copies never share state.
type selectionStore struct {
	list []suggest.Item
	max  int
}

func newSelectionStore(max int, initial []suggest.Item) selectionStore {
	s := selectionStore{max: max}
	for _, it := range initial {
		s, _ = s.add(it)
	}
	return s
}

func (s selectionStore) items() []suggest.Item {
	return append([]suggest.Item(nil), s.list...)
}

func (s selectionStore) len() int {
	return len(s.list)
}

func (s selectionStore) full() bool {
	return s.max > 0 && len(s.list) >= s.max
}

func (s selectionStore) contains(name string) bool {
	_, ok := suggest.Find(s.list, name)
	return ok
}

func (s selectionStore) last() (suggest.Item, bool) {
	if len(s.list) == 0 {
		return suggest.Item{}, false
	}
	return s.list[len(s.list)-1], true
}

// add appends it unless the name is taken or the store is full.
func (s selectionStore) add(it suggest.Item) (selectionStore, bool) {
	if it.Name == "" || s.full() || s.contains(it.Name) {
		return s, false
	}
	next := make([]suggest.Item, 0, len(s.list)+1)
	next = append(next, s.list...)
	s.list = append(next, it)
	return s, true
}

func (s selectionStore) remove(name string) (selectionStore, bool) {
	idx := -1
	for i, it := range s.list {
		if it.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, false
	}
	next := make([]suggest.Item, 0, len(s.list)-1)
	next = append(next, s.list[:idx]...)
	s.list = append(next, s.list[idx+1:]...)
	return s, true
}

// beginEdit pulls the named item out of the store and hands back its record.
func (s selectionStore) beginEdit(name string) (selectionStore, suggest.Item, bool) {
	it, ok := suggest.Find(s.list, name)
	if !ok {
		return s, suggest.Item{}, false
	}
	s, _ = s.remove(name)
	return s, it, true
}
