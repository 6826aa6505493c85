package components

// NoSelection is the cursor value of a list with nothing highlighted.
const NoSelection = -1

// List is a scrollable list whose cursor may rest on no item at all.
type List struct {
	Items    []string
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates an empty list with the given page size.
func NewList(pageSize int) List {
	if pageSize <= 0 {
		pageSize = 1
	}
	return List{Cursor: NoSelection, PageSize: pageSize}
}

// SetItems replaces items and clears the cursor.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.Cursor = NoSelection
	l.Offset = 0
}

// Clear drops all items.
func (l *List) Clear() {
	l.SetItems(nil)
}

// Len returns the number of items.
func (l List) Len() int {
	return len(l.Items)
}

// Down highlights the next item, starting at the first one. It stops at the
// last item.
func (l *List) Down() {
	if len(l.Items) == 0 {
		return
	}
	if l.Cursor == NoSelection {
		l.Cursor = 0
		l.Offset = 0
		return
	}
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up highlights the previous item. It stops at the first item and does
// nothing when no item is highlighted.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Visible returns the currently visible items.
func (l List) Visible() []string {
	if len(l.Items) == 0 {
		return nil
	}
	end := l.Offset + l.PageSize
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.Offset:end]
}

// Selected returns the highlighted index and whether there is one.
func (l List) Selected() (int, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return NoSelection, false
	}
	return l.Cursor, true
}

// IsSelected returns true if the given absolute index is the cursor.
func (l List) IsSelected(absIdx int) bool {
	return l.Cursor != NoSelection && absIdx == l.Cursor
}

// RelToAbs converts a relative (visible) index to absolute.
func (l List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}
