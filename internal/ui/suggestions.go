package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/tagpick/internal/suggest"
	"github.com/gravitrone/tagpick/internal/ui/components"
)

// refreshSuggestions reacts to a new input value or a focus change. Every
// call starts a new generation, so results of earlier fetches are dropped.
func (m *MultiSelectModel) refreshSuggestions() tea.Cmd {
	m.gen++
	m.stopFetch()

	if m.store.full() {
		m.clearSuggestions()
		return nil
	}

	query := strings.TrimSpace(m.input)
	if query == "" {
		if m.focused {
			m.setSuggestions(m.opts.StaticSuggestions, m.opts.StaticSuggestionsHeading)
		} else {
			m.clearSuggestions()
		}
		return nil
	}

	if m.opts.Debounce <= 0 {
		return m.startFetch(query)
	}
	id, gen := m.id, m.gen
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, gen: gen, query: query}
	})
}

func (m *MultiSelectModel) handleDebounce(msg debounceMsg) tea.Cmd {
	if msg.id != m.id || msg.gen != m.gen {
		return nil
	}
	return m.startFetch(msg.query)
}

func (m *MultiSelectModel) startFetch(query string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel
	m.logger.Debug("fetching suggestions", "query", query, "gen", m.gen)
	return fetchSuggestionsCmd(ctx, m.opts.FetchSuggestions, m.id, m.gen, query)
}

func fetchSuggestionsCmd(ctx context.Context, fetch suggest.Func, id, gen int, query string) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = suggestionsMsg{id: id, gen: gen, query: query, err: fmt.Errorf("suggestion source panicked: %v", r)}
			}
		}()
		items, err := fetch(ctx, query)
		return suggestionsMsg{id: id, gen: gen, query: query, items: items, err: err}
	}
}

func (m *MultiSelectModel) handleSuggestions(msg suggestionsMsg) {
	if msg.id != m.id {
		return
	}
	if msg.gen != m.gen {
		m.logger.Debug("stale suggestions dropped", "query", msg.query, "gen", msg.gen, "current", m.gen)
		return
	}
	m.stopFetch()
	if strings.TrimSpace(m.input) == "" || m.store.full() {
		return
	}

	items := msg.items
	if msg.err != nil {
		m.logger.Debug("suggestion fetch failed", "query", msg.query, "err", msg.err)
		items = nil
	}
	if m.opts.AllowUserDefinedSelections && len(items) == 0 {
		items = []suggest.Item{{Name: msg.query}}
	}
	m.setSuggestions(items, "")
}

// setSuggestions filters out selected names and refills the dropdown.
func (m *MultiSelectModel) setSuggestions(items []suggest.Item, heading string) {
	m.suggestions = suggest.Exclude(items, m.store.list)
	labels := make([]string, len(m.suggestions))
	for i, it := range m.suggestions {
		labels[i] = m.suggestionLabel(it)
	}
	m.list.SetItems(labels)
	m.heading = heading
	m.open = m.focused && len(m.suggestions) > 0
}

func (m *MultiSelectModel) clearSuggestions() {
	m.suggestions = nil
	m.heading = ""
	m.list.Clear()
	m.open = false
}

func (m *MultiSelectModel) stopFetch() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m MultiSelectModel) suggestionLabel(it suggest.Item) string {
	if m.opts.SuggestionTemplate != nil {
		return m.opts.SuggestionTemplate(it)
	}
	return components.SanitizeOneLine(it.Name)
}
