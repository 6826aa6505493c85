package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/tagpick/internal/suggest"
)

func TestSnapshotChipLabels(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{InputID: "tags", DefaultValue: suggest.Named("one", "two")})
	snap := m.Snapshot()

	assert.Equal(t, "tags", snap.Field.ID)
	assert.Equal(t, "Tags", snap.Field.Label)
	require.Len(t, snap.Chips, 2)
	assert.Equal(t, "Edit «one»", snap.Chips[0].EditLabel)
	assert.Equal(t, "Remove «two»", snap.Chips[1].RemoveLabel)
}

func TestSnapshotHidesOptionsWhenClosed(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{FetchSuggestions: fixedFetch("go")})
	m = typeText(m, "g")
	require.NotEmpty(t, m.Snapshot().Options)

	m, _ = drain(m.Update(BlurMsg{}))
	snap := m.Snapshot()
	assert.Empty(t, snap.Options)
	assert.False(t, snap.Field.Expanded)
	assert.Empty(t, snap.Field.ActiveDescendant)
}

func TestViewRendersFieldParts(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{
		LabelText:                "Languages",
		ShowLabel:                true,
		Border:                   true,
		Width:                    60,
		MaxSelections:            3,
		DefaultValue:             suggest.Named("go"),
		StaticSuggestions:        suggest.Named("rust", "zig"),
		StaticSuggestionsHeading: "Popular",
	})
	view := m.View()

	assert.Contains(t, view, "Languages")
	assert.Contains(t, view, "go")
	assert.Contains(t, view, "✎")
	assert.Contains(t, view, "✕")
	assert.Contains(t, view, PlaceholderSelectionsMade)
	assert.Contains(t, view, "Popular")
	assert.Contains(t, view, "rust")
	assert.Contains(t, view, "Maximum 3 selections")
	assert.Contains(t, view, "╭")
}

func TestViewHidesLabelWhenAsked(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{LabelText: "Hidden label"})
	assert.NotContains(t, m.View(), "Hidden label")
	assert.Equal(t, "Hidden label", m.Snapshot().Field.Label)
}

func TestViewShowsCapacityNotice(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{MaxSelections: 1, DefaultValue: suggest.Named("a")})
	view := m.View()
	assert.Contains(t, view, "Only 1 selections allowed")
	assert.NotContains(t, view, "Maximum 1 selections")
}

func TestViewHighlightsActiveOption(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{FetchSuggestions: fixedFetch("alpha", "beta")})
	m = typeText(m, "a")
	m, _ = press(m, "down", "down")
	assert.Contains(t, m.View(), "  > beta")
}

func TestViewPagesLongSuggestionLists(t *testing.T) {
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("tag%02d", i)
	}
	m := newTestPicker(t, MultiSelectOptions{PageSize: 5, FetchSuggestions: fixedFetch(names...)})
	m = typeText(m, "t")

	view := m.View()
	assert.Contains(t, view, "tag04")
	assert.NotContains(t, view, "tag05")
	assert.Contains(t, view, "↓ 7 more")
	assert.Len(t, m.Snapshot().Options, 12)
}

func TestViewSanitizesNames(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{DefaultValue: suggest.Named("evil\x1b[31m\nname")})
	view := m.View()
	assert.NotContains(t, view, "\x1b[31m")
	assert.Contains(t, view, "evil name")
}

func TestSuggestionTemplate(t *testing.T) {
	tmpl := func(it suggest.Item) string {
		return fmt.Sprintf("%s (%v)", it.Name, it.Meta["count"])
	}
	m := newTestPicker(t, MultiSelectOptions{
		SuggestionTemplate: tmpl,
		FetchSuggestions: func(context.Context, string) ([]suggest.Item, error) {
			return []suggest.Item{{Name: "go", Meta: map[string]any{"count": 7}}}, nil
		},
	})
	m = typeText(m, "g")
	snap := m.Snapshot()
	require.Len(t, snap.Options, 1)
	assert.Equal(t, "go (7)", snap.Options[0].Label)
	assert.Equal(t, "go", snap.Options[0].Name)
	assert.Contains(t, m.View(), "go (7)")
}

func TestSelectionTemplateHandlersAreBound(t *testing.T) {
	var got []SelectionHandlers
	tmpl := func(it suggest.Item, h SelectionHandlers) string {
		got = append(got, h)
		return "<" + it.Name + "|" + h.EditButton("edit") + "|" + h.RemoveButton("drop") + ">"
	}
	m := newTestPicker(t, MultiSelectOptions{
		SelectionTemplate: tmpl,
		DefaultValue:      suggest.Named("one", "two"),
	})
	view := m.View()
	assert.Contains(t, view, "<one|edit|drop>")
	assert.Contains(t, view, "<two|edit|drop>")

	require.Len(t, got, 2)
	assert.Equal(t, EditSelectionMsg{Name: "one"}, got[0].OnEdit())
	assert.Equal(t, RemoveSelectionMsg{Name: "two"}, got[1].OnDeselect())

	m, _ = drain(m.Update(got[1].OnDeselect()))
	assert.Equal(t, []string{"one"}, suggest.Names(m.Selections()))
}

// --- Mouse ---

func newZonedPicker(t *testing.T, opts MultiSelectOptions) (MultiSelectModel, *zone.Manager) {
	t.Helper()
	zones := zone.New()
	t.Cleanup(zones.Close)
	opts.Zones = zones
	return newTestPicker(t, opts), zones
}

// scan renders m through the zone manager and waits until id is known.
func scan(t *testing.T, m MultiSelectModel, zones *zone.Manager, id string) *zone.ZoneInfo {
	t.Helper()
	zones.Scan(m.View())
	var info *zone.ZoneInfo
	require.Eventually(t, func() bool {
		info = zones.Get(m.prefix + id)
		return !info.IsZero()
	}, time.Second, 5*time.Millisecond)
	return info
}

func click(info *zone.ZoneInfo) tea.MouseMsg {
	return tea.MouseMsg{X: info.StartX, Y: info.StartY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestClickOptionPicksIt(t *testing.T) {
	m, zones := newZonedPicker(t, MultiSelectOptions{FetchSuggestions: fixedFetch("alpha", "beta")})
	m = typeText(m, "a")

	info := scan(t, m, zones, "opt-1")
	m, cmd := m.Update(click(info))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"beta"}, suggest.Names(m.Selections()))
	assert.True(t, m.Focused())
}

func TestClickChipAffordances(t *testing.T) {
	m, zones := newZonedPicker(t, MultiSelectOptions{DefaultValue: suggest.Named("one", "two")})
	m, _ = drain(m.Update(BlurMsg{}))

	info := scan(t, m, zones, "edit-0")
	edited, _ := m.Update(click(info))
	assert.Equal(t, "one", edited.Value())
	assert.Equal(t, []string{"two"}, suggest.Names(edited.Selections()))

	info = scan(t, m, zones, "remove-1")
	removed, _ := m.Update(click(info))
	assert.Equal(t, "", removed.Value())
	assert.Equal(t, []string{"one"}, suggest.Names(removed.Selections()))
	assert.True(t, removed.Focused())
}

func TestClickOutsideBlursAndInsideFocuses(t *testing.T) {
	m, zones := newZonedPicker(t, MultiSelectOptions{AllowUserDefinedSelections: true})
	m = typeText(m, "pending")

	root := scan(t, m, zones, "root")
	outside := tea.MouseMsg{X: root.EndX + 5, Y: root.EndY + 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = drain(m.Update(outside))
	assert.False(t, m.Focused())
	assert.Equal(t, []string{"pending"}, suggest.Names(m.Selections()))

	root = scan(t, m, zones, "root")
	m, _ = drain(m.Update(click(root)))
	assert.True(t, m.Focused())
}

func TestMouseIgnoredWithoutZones(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{})
	m, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	assert.True(t, m.Focused())
}

func TestViewWithoutBorderIsSingleLine(t *testing.T) {
	m := newTestPicker(t, MultiSelectOptions{})
	m, _ = drain(m.Update(BlurMsg{}))
	view := m.View()
	assert.Equal(t, 1, len(strings.Split(view, "\n")))
	assert.Contains(t, view, DefaultPlaceholder)
}
