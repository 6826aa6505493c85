package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"github.com/gravitrone/tagpick/internal/logging"
	"github.com/gravitrone/tagpick/internal/suggest"
	"github.com/gravitrone/tagpick/internal/ui/components"
)

const (
	// DefaultPlaceholder is shown while nothing is selected.
	DefaultPlaceholder = "Add..."
	// PlaceholderSelectionsMade replaces the placeholder once selections exist.
	PlaceholderSelectionsMade = "Add another..."
	// DefaultDebounce is the usual delay between the last keystroke and a fetch.
	DefaultDebounce = 150 * time.Millisecond

	defaultPageSize = 8
)

// ErrMissingLabel and ErrMissingFetch are returned by NewMultiSelectModel.
var (
	ErrMissingLabel = errors.New("multiselect: LabelText is required")
	ErrMissingFetch = errors.New("multiselect: FetchSuggestions is required")
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// MultiSelectOptions configures a MultiSelectModel.
type MultiSelectOptions struct {
	LabelText                  string
	ShowLabel                  bool
	Border                     bool
	Placeholder                string
	InputID                    string
	DefaultValue               []suggest.Item
	StaticSuggestions          []suggest.Item
	StaticSuggestionsHeading   string
	FetchSuggestions           suggest.Func
	SuggestionTemplate         SuggestionTemplate
	SelectionTemplate          SelectionTemplate
	AllowUserDefinedSelections bool
	// MaxSelections caps the selections; 0 means unlimited.
	MaxSelections int

	// Debounce delays fetches after typing; 0 fetches on every change.
	Debounce time.Duration
	PageSize int
	Width    int
	Logger   *log.Logger
	Zones    *zone.Manager
	KeyMap   *MultiSelectKeyMap
}

// --- Messages ---

// FocusMsg focuses the field.
type FocusMsg struct{}

// BlurMsg moves focus away from the field.
type BlurMsg struct{}

// PickSuggestionMsg commits the suggestion at Index, as a click would.
type PickSuggestionMsg struct{ Index int }

// EditSelectionMsg pulls the named selection back into the input.
type EditSelectionMsg struct{ Name string }

// RemoveSelectionMsg deletes the named selection.
type RemoveSelectionMsg struct{ Name string }

// SelectionsChangedMsg is emitted after every add or remove.
type SelectionsChangedMsg struct {
	ID         string
	Selections []suggest.Item
}

type debounceMsg struct {
	id    int
	gen   int
	query string
}

type suggestionsMsg struct {
	id    int
	gen   int
	query string
	items []suggest.Item
	err   error
}

// --- Model ---

// MultiSelectModel is a text field that accumulates distinct selections
// with debounced, asynchronously fetched suggestions.
type MultiSelectModel struct {
	id     int
	opts   MultiSelectOptions
	keys   MultiSelectKeyMap
	logger *log.Logger
	zones  *zone.Manager
	prefix string

	input        string
	store        selectionStore
	suggestions  []suggest.Item
	heading      string
	list         components.List
	open         bool
	focused      bool
	editing      *suggest.Item
	gen          int
	cancelFetch  context.CancelFunc
	announcement string
}

// NewMultiSelectModel validates opts and builds the field.
func NewMultiSelectModel(opts MultiSelectOptions) (MultiSelectModel, error) {
	if strings.TrimSpace(opts.LabelText) == "" {
		return MultiSelectModel{}, ErrMissingLabel
	}
	if opts.FetchSuggestions == nil {
		return MultiSelectModel{}, ErrMissingFetch
	}
	if opts.MaxSelections < 0 {
		return MultiSelectModel{}, fmt.Errorf("multiselect: MaxSelections must be >= 0, got %d", opts.MaxSelections)
	}
	if opts.Debounce < 0 {
		return MultiSelectModel{}, fmt.Errorf("multiselect: Debounce must be >= 0, got %s", opts.Debounce)
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}

	m := MultiSelectModel{
		id:     nextID(),
		opts:   opts,
		keys:   DefaultMultiSelectKeyMap(),
		logger: opts.Logger,
		zones:  opts.Zones,
		store:  newSelectionStore(opts.MaxSelections, opts.DefaultValue),
		list:   components.NewList(opts.PageSize),
	}
	if opts.KeyMap != nil {
		m.keys = *opts.KeyMap
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.opts.InputID == "" {
		m.opts.InputID = fmt.Sprintf("multiselect-%d", m.id)
	}
	if m.zones != nil {
		m.prefix = m.zones.NewPrefix()
	}
	return m, nil
}

func (m MultiSelectModel) Init() tea.Cmd {
	return nil
}

// Selections returns a copy of the committed selections, in order.
func (m MultiSelectModel) Selections() []suggest.Item {
	return m.store.items()
}

// Value returns the current text of the field.
func (m MultiSelectModel) Value() string {
	return m.input
}

// Focused reports whether the field has focus.
func (m MultiSelectModel) Focused() bool {
	return m.focused
}

// AtCapacity reports whether MaxSelections has been reached.
func (m MultiSelectModel) AtCapacity() bool {
	return m.store.full()
}

// KeyMap returns the bindings in use.
func (m MultiSelectModel) KeyMap() MultiSelectKeyMap {
	return m.keys
}

// SetWidth sets the render width.
func (m *MultiSelectModel) SetWidth(width int) {
	m.opts.Width = width
}

// Focus returns a command that focuses the field.
func (m MultiSelectModel) Focus() tea.Cmd {
	return func() tea.Msg { return FocusMsg{} }
}

// Blur returns a command that blurs the field.
func (m MultiSelectModel) Blur() tea.Cmd {
	return func() tea.Msg { return BlurMsg{} }
}

func (m MultiSelectModel) Update(msg tea.Msg) (MultiSelectModel, tea.Cmd) {
	switch msg := msg.(type) {
	case FocusMsg:
		m.focused = true
		return m, m.refreshSuggestions()
	case BlurMsg:
		return m, m.blur()
	case PickSuggestionMsg:
		m.focused = true
		return m, m.pick(msg.Index)
	case EditSelectionMsg:
		return m, m.editSelection(msg.Name)
	case RemoveSelectionMsg:
		return m, m.removeSelection(msg.Name)
	case debounceMsg:
		return m, m.handleDebounce(msg)
	case suggestionsMsg:
		m.handleSuggestions(msg)
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m MultiSelectModel) handleKey(msg tea.KeyMsg) (MultiSelectModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		if m.open && len(m.suggestions) > 0 {
			m.list.Down()
		}
	case key.Matches(msg, m.keys.Prev):
		if m.open {
			m.list.Up()
		}
	case key.Matches(msg, m.keys.Select):
		if idx, ok := m.list.Selected(); ok && m.open {
			return m, m.pick(idx)
		}
	case key.Matches(msg, m.keys.Commit):
		if strings.TrimSpace(m.input) == "" || m.store.full() {
			return m, nil
		}
		if item, ok := m.resolveText(); ok {
			return m, m.commit(item)
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.input != "" || m.open {
			m.input = ""
			m.editing = nil
			m.gen++
			m.stopFetch()
			m.clearSuggestions()
		}
	case key.Matches(msg, m.keys.Backspace):
		if m.input == "" {
			last, ok := m.store.last()
			if !ok {
				return m, nil
			}
			return m, m.beginEdit(last.Name)
		}
		runes := []rune(m.input)
		m.input = string(runes[:len(runes)-1])
		return m, m.refreshSuggestions()
	case key.Matches(msg, m.keys.ClearLine):
		if m.input != "" {
			m.input = ""
			return m, m.refreshSuggestions()
		}
	case isTyping(msg):
		text := components.SanitizeInput(string(msg.Runes))
		if text == "" {
			return m, nil
		}
		m.input += text
		return m, m.refreshSuggestions()
	}
	return m, nil
}

// resolveText turns the typed text into a committable item: a suggestion
// with that exact name, the item being edited, or a free-form item.
func (m MultiSelectModel) resolveText() (suggest.Item, bool) {
	text := strings.TrimSpace(m.input)
	if text == "" {
		return suggest.Item{}, false
	}
	if it, ok := suggest.Find(m.suggestions, text); ok {
		return it, true
	}
	if m.editing != nil && m.editing.Name == text {
		return *m.editing, true
	}
	if m.opts.AllowUserDefinedSelections {
		return suggest.Item{Name: text}, true
	}
	return suggest.Item{}, false
}

// commit adds item. On rejection the input is left as typed.
func (m *MultiSelectModel) commit(item suggest.Item) tea.Cmd {
	store, ok := m.store.add(item)
	if !ok {
		m.logger.Debug("selection rejected", "name", item.Name, "full", m.store.full())
		return nil
	}
	m.store = store
	m.editing = nil
	m.input = ""
	m.gen++
	m.stopFetch()
	m.clearSuggestions()
	m.announcement = "Added " + item.Name
	m.logger.Debug("selection added", "name", item.Name, "count", m.store.len())
	return m.changed()
}

func (m *MultiSelectModel) pick(index int) tea.Cmd {
	if index < 0 || index >= len(m.suggestions) {
		return nil
	}
	return m.commit(m.suggestions[index])
}

func (m *MultiSelectModel) blur() tea.Cmd {
	m.focused = false
	var cmd tea.Cmd
	if !m.store.full() {
		if item, ok := m.resolveText(); ok {
			cmd = m.commit(item)
		}
	}
	m.input = ""
	m.editing = nil
	m.gen++
	m.stopFetch()
	m.clearSuggestions()
	return cmd
}

// beginEdit moves the named selection into the input and fetches for it.
func (m *MultiSelectModel) beginEdit(name string) tea.Cmd {
	store, item, ok := m.store.beginEdit(name)
	if !ok {
		return nil
	}
	m.store = store
	m.editing = &item
	m.input = item.Name
	m.focused = true
	m.announcement = "Editing " + item.Name
	m.logger.Debug("selection editing", "name", item.Name)
	return tea.Batch(m.changed(), m.refreshSuggestions())
}

func (m *MultiSelectModel) editSelection(name string) tea.Cmd {
	if !m.store.contains(name) {
		return nil
	}
	var cmds []tea.Cmd
	if !m.store.full() {
		if item, ok := m.resolveText(); ok {
			cmds = append(cmds, m.commit(item))
		}
	}
	m.input = ""
	m.editing = nil
	cmds = append(cmds, m.beginEdit(name))
	return tea.Batch(cmds...)
}

func (m *MultiSelectModel) removeSelection(name string) tea.Cmd {
	store, ok := m.store.remove(name)
	m.focused = true
	if !ok {
		return m.refreshSuggestions()
	}
	m.store = store
	m.announcement = "Removed " + name
	m.logger.Debug("selection removed", "name", name, "count", m.store.len())
	return tea.Batch(m.changed(), m.refreshSuggestions())
}

func (m MultiSelectModel) changed() tea.Cmd {
	msg := SelectionsChangedMsg{ID: m.opts.InputID, Selections: m.store.items()}
	return func() tea.Msg { return msg }
}
