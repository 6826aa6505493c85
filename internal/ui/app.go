package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"github.com/gravitrone/tagpick/internal/logging"
	"github.com/gravitrone/tagpick/internal/suggest"
	"github.com/gravitrone/tagpick/internal/ui/components"
)

// SubmitFunc persists the final selections, e.g. as an entity's tags.
type SubmitFunc func(ctx context.Context, selections []suggest.Item) error

// AppOptions configures the host program around a picker.
type AppOptions struct {
	Title         string
	Picker        MultiSelectOptions
	Submit        SubmitFunc
	SubmitTimeout time.Duration
	Logger        *log.Logger
}

// Result is what the session ended with.
type Result struct {
	Selections []suggest.Item
	Submitted  bool
}

// --- Messages ---

type clearToastMsg struct{}
type submitDoneMsg struct{ err error }

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App frames a single picker, shows key hints and feedback, and reports
// the selections when the user is done.
type App struct {
	picker  MultiSelectModel
	zones   *zone.Manager
	keys    AppKeyMap
	title   string
	submit  SubmitFunc
	timeout time.Duration
	logger  *log.Logger

	width      int
	height     int
	err        string
	toast      *appToast
	submitting bool
	submitted  bool
}

// NewApp builds the host model. A zone manager is created for the picker
// when none is supplied.
func NewApp(opts AppOptions) (App, error) {
	if opts.Picker.Zones == nil {
		opts.Picker.Zones = zone.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Picker.Logger == nil {
		opts.Picker.Logger = opts.Logger
	}
	picker, err := NewMultiSelectModel(opts.Picker)
	if err != nil {
		return App{}, err
	}
	title := opts.Title
	if title == "" {
		title = "tagpick"
	}
	timeout := opts.SubmitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return App{
		picker:  picker,
		zones:   opts.Picker.Zones,
		keys:    DefaultAppKeyMap(),
		title:   title,
		submit:  opts.Submit,
		timeout: timeout,
		logger:  opts.Logger,
	}, nil
}

func (a App) Init() tea.Cmd {
	return a.picker.Focus()
}

// Result reports the current selections and whether they were submitted.
func (a App) Result() Result {
	return Result{Selections: a.picker.Selections(), Submitted: a.submitted}
}

// Picker exposes the wrapped field.
func (a App) Picker() MultiSelectModel {
	return a.picker
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.SetWidth(components.BoxContentWidth(msg.Width))
		return a, nil

	case clearToastMsg:
		a.toast = nil
		return a, nil
	case submitDoneMsg:
		a.submitting = false
		a.toast = nil
		if msg.err != nil {
			a.logger.Error("submit failed", "err", msg.err)
			a.err = fmt.Sprintf("save failed: %v", msg.err)
			return a, nil
		}
		a.submitted = true
		return a, tea.Quit
	case SelectionsChangedMsg:
		a.logger.Debug("selections changed", "names", suggest.Names(msg.Selections))
		if text := a.picker.Snapshot().Announcement; text != "" {
			return a, a.setToast("info", text)
		}
		return a, nil

	case tea.KeyMsg:
		if a.submitting {
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Submit):
			return a.doSubmit()
		case key.Matches(msg, a.keys.Focus):
			if a.picker.Focused() {
				return a.forward(BlurMsg{})
			}
			return a.forward(FocusMsg{})
		}
		return a.forward(msg)
	}
	return a.forward(msg)
}

func (a App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	return a, cmd
}

// doSubmit blurs the picker, which commits pending text, then saves.
func (a App) doSubmit() (tea.Model, tea.Cmd) {
	var blurCmd tea.Cmd
	a.picker, blurCmd = a.picker.Update(BlurMsg{})
	if a.submit == nil {
		a.submitted = true
		return a, tea.Sequence(blurCmd, tea.Quit)
	}
	a.submitting = true
	selections := a.picker.Selections()
	submit, timeout := a.submit, a.timeout
	save := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return submitDoneMsg{err: submit(ctx, selections)}
	}
	a.toast = &appToast{level: "info", text: "Saving..."}
	return a, tea.Batch(blurCmd, save)
}

func (a App) View() string {
	content := a.picker.View()
	var box string
	if a.picker.Focused() {
		box = components.ActiveTitledBox(a.title, content, a.width)
	} else {
		box = components.TitledBox(a.title, content, a.width)
	}
	box = centerBlockUniform(box, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return a.zones.Scan(fmt.Sprintf("\n%s\n\n%s%s", box, hints, feedback))
}

func (a App) statusHints() []string {
	if !a.picker.Focused() {
		return components.BindingHints(a.keys.Focus, a.keys.Submit, a.keys.Quit)
	}
	bindings := append(a.picker.KeyMap().Hints(), a.keys.Focus, a.keys.Submit, a.keys.Quit)
	return components.BindingHints(bindings...)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.level {
	case "success":
		return SuccessStyle.Render(a.toast.text)
	case "warning":
		return WarningStyle.Render(a.toast.text)
	}
	return MutedStyle.Render(a.toast.text)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
