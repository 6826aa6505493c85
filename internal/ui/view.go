package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/tagpick/internal/suggest"
	"github.com/gravitrone/tagpick/internal/ui/components"
)

// SuggestionTemplate renders one dropdown row from the raw suggestion.
type SuggestionTemplate func(suggest.Item) string

// SelectionTemplate renders one committed selection. The handlers are bound
// to that selection's name.
type SelectionTemplate func(suggest.Item, SelectionHandlers) string

// SelectionHandlers are the edit and remove actions of a single chip.
// EditButton and RemoveButton wrap a label so clicks on it trigger the
// matching action.
type SelectionHandlers struct {
	OnEdit       tea.Cmd
	OnDeselect   tea.Cmd
	EditButton   func(label string) string
	RemoveButton func(label string) string
}

// FieldView describes the text field.
type FieldView struct {
	ID               string
	Label            string
	ShowLabel        bool
	Value            string
	Placeholder      string
	Description      string
	Disabled         bool
	Focused          bool
	Expanded         bool
	ActiveDescendant string
}

// OptionView is one open suggestion.
type OptionView struct {
	ID       string
	Name     string
	Label    string
	Selected bool
}

// ChipView is one committed selection and its two affordances.
type ChipView struct {
	Name        string
	EditLabel   string
	RemoveLabel string
	Item        suggest.Item
}

// MultiSelectView is everything a renderer needs to draw the field.
type MultiSelectView struct {
	Field        FieldView
	Heading      string
	Options      []OptionView
	Chips        []ChipView
	Notice       string
	Announcement string
}

// Snapshot exposes the current state for rendering and inspection.
func (m MultiSelectModel) Snapshot() MultiSelectView {
	full := m.store.full()
	v := MultiSelectView{
		Field: FieldView{
			ID:          m.opts.InputID,
			Label:       m.opts.LabelText,
			ShowLabel:   m.opts.ShowLabel,
			Value:       m.input,
			Placeholder: m.placeholder(),
			Disabled:    full,
			Focused:     m.focused,
			Expanded:    m.open,
		},
		Announcement: m.announcement,
	}
	if m.opts.MaxSelections > 0 {
		v.Field.Description = fmt.Sprintf("Maximum %d selections", m.opts.MaxSelections)
	}
	if full {
		v.Notice = fmt.Sprintf("Only %d selections allowed", m.opts.MaxSelections)
	}
	if m.open {
		v.Heading = m.heading
		v.Options = make([]OptionView, len(m.suggestions))
		for i, it := range m.suggestions {
			v.Options[i] = OptionView{
				ID:       m.optionID(i),
				Name:     it.Name,
				Label:    m.list.Items[i],
				Selected: m.list.IsSelected(i),
			}
		}
		if idx, ok := m.list.Selected(); ok {
			v.Field.ActiveDescendant = m.optionID(idx)
		}
	}
	for _, it := range m.store.list {
		v.Chips = append(v.Chips, ChipView{
			Name:        it.Name,
			EditLabel:   "Edit «" + it.Name + "»",
			RemoveLabel: "Remove «" + it.Name + "»",
			Item:        it,
		})
	}
	return v
}

func (m MultiSelectModel) placeholder() string {
	switch {
	case m.store.full(), m.editing != nil:
		return ""
	case m.store.len() > 0:
		return PlaceholderSelectionsMade
	default:
		return m.opts.Placeholder
	}
}

func (m MultiSelectModel) optionID(i int) string {
	return m.opts.InputID + "-option-" + strconv.Itoa(i)
}

// --- Rendering ---

func (m MultiSelectModel) View() string {
	v := m.Snapshot()
	var b strings.Builder

	if v.Field.ShowLabel {
		b.WriteString(LabelStyle.Render(components.SanitizeOneLine(v.Field.Label)))
		b.WriteString("\n")
	}

	if len(v.Chips) > 0 {
		b.WriteString(m.renderChips(v.Chips))
		b.WriteString("\n")
	}

	b.WriteString(m.renderField(v.Field))

	if v.Field.Expanded {
		b.WriteString("\n")
		if v.Heading != "" {
			b.WriteString(HeadingStyle.Render(components.SanitizeOneLine(v.Heading)))
			b.WriteString("\n")
		}
		b.WriteString(m.renderOptions(v.Options))
	}

	if v.Notice != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(v.Notice))
	} else if v.Field.Description != "" {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(v.Field.Description))
	}

	return m.mark("root", b.String())
}

func (m MultiSelectModel) renderField(f FieldView) string {
	var line string
	switch {
	case f.Value != "":
		line = NormalStyle.Render(components.SanitizeOneLine(f.Value))
	case f.Placeholder != "":
		line = MutedStyle.Render(f.Placeholder)
	}
	if f.Focused {
		line += AccentStyle.Render("█")
	}
	line = "> " + line
	if !m.opts.Border {
		return line
	}
	width := m.opts.Width
	if width > 0 {
		width -= 2
	}
	return components.FieldBox(line, width, f.Focused)
}

func (m MultiSelectModel) renderOptions(opts []OptionView) string {
	maxWidth := 0
	if m.opts.Width > 0 {
		maxWidth = m.opts.Width - 4
	}
	visible := m.list.Visible()
	rows := make([]string, 0, len(visible))
	for i := range visible {
		abs := m.list.RelToAbs(i)
		if abs >= len(opts) {
			break
		}
		opt := opts[abs]
		label := opt.Label
		if maxWidth > 0 {
			label = components.ClampTextWidth(label, maxWidth)
		}
		var row string
		if opt.Selected {
			row = SelectedStyle.Render("  > " + label)
		} else {
			row = NormalStyle.Render("    " + label)
		}
		rows = append(rows, m.mark("opt-"+strconv.Itoa(abs), row))
	}
	if more := len(opts) - m.list.Offset - len(visible); more > 0 {
		rows = append(rows, MutedStyle.Render(fmt.Sprintf("    ↓ %d more", more)))
	}
	return strings.Join(rows, "\n")
}

func (m MultiSelectModel) renderChips(chips []ChipView) string {
	rendered := make([]string, 0, len(chips))
	for i, c := range chips {
		h := m.handlers(i, c.Name)
		if m.opts.SelectionTemplate != nil {
			rendered = append(rendered, m.opts.SelectionTemplate(c.Item, h))
			continue
		}
		rendered = append(rendered, defaultChip(c, h))
	}
	return strings.Join(rendered, "  ")
}

func defaultChip(c ChipView, h SelectionHandlers) string {
	name := ChipStyle.Render(components.SanitizeOneLine(c.Name))
	edit := h.EditButton(ChipActionStyle.Render("✎"))
	remove := h.RemoveButton(ChipActionStyle.Render("✕"))
	return name + " " + edit + " " + remove
}

// handlers binds the chip actions of the selection at index i.
func (m MultiSelectModel) handlers(i int, name string) SelectionHandlers {
	idx := strconv.Itoa(i)
	return SelectionHandlers{
		OnEdit:       func() tea.Msg { return EditSelectionMsg{Name: name} },
		OnDeselect:   func() tea.Msg { return RemoveSelectionMsg{Name: name} },
		EditButton:   func(label string) string { return m.mark("edit-"+idx, label) },
		RemoveButton: func(label string) string { return m.mark("remove-"+idx, label) },
	}
}

// mark wraps s in a click zone when a zone manager is attached.
func (m MultiSelectModel) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(m.prefix+id, s)
}

func (m MultiSelectModel) inZone(id string, msg tea.MouseMsg) bool {
	if m.zones == nil {
		return false
	}
	return m.zones.Get(m.prefix + id).InBounds(msg)
}

// handleMouse maps a left click to the action under the pointer. Clicks
// outside the widget blur it.
func (m MultiSelectModel) handleMouse(msg tea.MouseMsg) (MultiSelectModel, tea.Cmd) {
	if m.zones == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.open {
		for i := range m.list.Visible() {
			abs := m.list.RelToAbs(i)
			if m.inZone("opt-"+strconv.Itoa(abs), msg) {
				return m.Update(PickSuggestionMsg{Index: abs})
			}
		}
	}
	for i, it := range m.store.list {
		idx := strconv.Itoa(i)
		if m.inZone("edit-"+idx, msg) {
			return m.Update(EditSelectionMsg{Name: it.Name})
		}
		if m.inZone("remove-"+idx, msg) {
			return m.Update(RemoveSelectionMsg{Name: it.Name})
		}
	}
	if m.inZone("root", msg) {
		if m.focused {
			return m, nil
		}
		return m.Update(FocusMsg{})
	}
	if m.focused {
		return m.Update(BlurMsg{})
	}
	return m, nil
}
