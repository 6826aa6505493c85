package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/gravitrone/tagpick/internal/api"
	"github.com/gravitrone/tagpick/internal/config"
	"github.com/gravitrone/tagpick/internal/logging"
	"github.com/gravitrone/tagpick/internal/suggest"
	"github.com/gravitrone/tagpick/internal/ui"
)

// ErrCancelled is returned when the picker is closed without submitting.
var ErrCancelled = errors.New("selection cancelled")

// PickFlags are the root command flags. Flags left unset defer to the config.
type PickFlags struct {
	Max      int
	AllowNew bool
	Static   []string
	Words    string
	Kind     string
	Entity   string
	JSON     bool
	Label    string
	Debounce time.Duration
	Offline  bool
}

// Bind registers the flags on cmd.
func (f *PickFlags) Bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.Max, "max", "m", 0, "maximum selections (0 = unlimited)")
	fs.BoolVar(&f.AllowNew, "allow-new", false, "accept names that are not suggested")
	fs.StringSliceVarP(&f.Static, "static", "s", nil, "static suggestions shown on an empty input")
	fs.StringVarP(&f.Words, "words", "w", "", "word list file used as a local suggestion source")
	fs.StringVarP(&f.Kind, "kind", "k", "", "taxonomy kind to suggest from")
	fs.StringVarP(&f.Entity, "entity", "e", "", "entity whose tags are edited and saved on submit")
	fs.BoolVar(&f.JSON, "json", false, "print the selections as JSON")
	fs.StringVarP(&f.Label, "label", "l", "", "field label")
	fs.DurationVar(&f.Debounce, "debounce", 0, "delay between typing and fetching (e.g. 150ms)")
	fs.BoolVar(&f.Offline, "offline", false, "do not contact the server")
}

// Apply copies the flags the user set onto cfg.
func (f PickFlags) Apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("max") {
		cfg.MaxSelections = f.Max
	}
	if fs.Changed("allow-new") {
		cfg.AllowUserDefined = f.AllowNew
	}
	if fs.Changed("static") {
		cfg.Static = f.Static
	}
	if fs.Changed("words") {
		cfg.WordsFile = f.Words
	}
	if fs.Changed("kind") {
		cfg.TaxonomyKind = f.Kind
	}
	if fs.Changed("label") {
		cfg.Label = f.Label
	}
	if fs.Changed("debounce") {
		ms := int(f.Debounce / time.Millisecond)
		cfg.DebounceMS = &ms
	}
}

// BuildSources merges the configured suggestion sources in priority order:
// taxonomy, word list, static list. A nil lister skips the taxonomy.
func BuildSources(cfg *config.Config, lister suggest.TaxonomyLister, logger *log.Logger) (suggest.Func, error) {
	limit := cfg.SuggestionLimit()
	var sources []suggest.Func

	if lister != nil {
		sources = append(sources, suggest.Taxonomy(lister, cfg.Kind(), limit))
		logger.Info("taxonomy source enabled", "kind", cfg.Kind(), "server", cfg.Server())
	}
	if cfg.WordsFile != "" {
		words, err := suggest.LoadWordsFile(cfg.WordsFile, limit)
		if err != nil {
			return nil, err
		}
		sources = append(sources, words.Func())
		logger.Info("word list loaded", "path", cfg.WordsFile, "words", words.Len())
	}
	if len(cfg.Static) > 0 {
		sources = append(sources, suggest.Static(suggest.Named(cfg.Static...)))
	}
	if len(sources) == 0 && !cfg.AllowUserDefined {
		return nil, errors.New("no suggestion sources: configure a server, --words, --static or --allow-new")
	}
	return suggest.Merge(limit, sources...), nil
}

// PickerOptions maps the config onto widget options.
func PickerOptions(cfg *config.Config, fetch suggest.Func, logger *log.Logger) ui.MultiSelectOptions {
	label := cfg.Label
	if label == "" {
		label = config.DefaultLabel
	}
	return ui.MultiSelectOptions{
		LabelText:                  label,
		ShowLabel:                  cfg.ShowLabel,
		Border:                     cfg.Border,
		Placeholder:                cfg.Placeholder,
		StaticSuggestions:          suggest.Named(cfg.Static...),
		StaticSuggestionsHeading:   cfg.StaticHeading,
		FetchSuggestions:           fetch,
		SuggestionTemplate:         countTemplate,
		AllowUserDefinedSelections: cfg.AllowUserDefined,
		MaxSelections:              cfg.MaxSelections,
		Debounce:                   cfg.Debounce(),
		Logger:                     logger,
	}
}

// countTemplate appends the usage count, when known, to a suggestion row.
func countTemplate(it suggest.Item) string {
	name := ui.NormalStyle.Render(it.Name)
	if n, ok := it.Meta["count"].(int); ok && n > 0 {
		return name + ui.MutedStyle.Render(fmt.Sprintf(" (%d)", n))
	}
	return name
}

// EntitySubmit saves the selections as the entity's tags.
func EntitySubmit(client *api.Client, id string) ui.SubmitFunc {
	return func(ctx context.Context, selections []suggest.Item) error {
		if _, err := client.SetEntityTags(ctx, id, suggest.Names(selections)); err != nil {
			return fmt.Errorf("save tags for %s: %w", id, err)
		}
		return nil
	}
}

// PrintResult writes the selections, one name per line or as JSON.
func PrintResult(out io.Writer, res ui.Result, asJSON bool) error {
	if asJSON {
		items := res.Selections
		if items == nil {
			items = []suggest.Item{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	for _, it := range res.Selections {
		fmt.Fprintln(out, it.Name)
	}
	return nil
}

// RunPicker runs the interactive picker. The TUI draws on stderr so the
// result can be captured from stdout.
func RunPicker(c *cobra.Command, flags PickFlags) error {
	ctx := c.Context()
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	flags.Apply(c, cfg)

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.LogPath()
	}
	logger, closer, err := logging.Open(logPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	var client *api.Client
	var lister suggest.TaxonomyLister
	if !flags.Offline {
		client = api.NewClient(cfg.Server(), cfg.APIKey)
		lister = client
	}
	if flags.Entity != "" && client == nil {
		return errors.New("--entity cannot be used with --offline")
	}

	fetch, err := BuildSources(cfg, lister, logger)
	if err != nil {
		return err
	}

	zones := zone.New()
	defer zones.Close()

	picker := PickerOptions(cfg, fetch, logger)
	picker.Zones = zones
	appOpts := ui.AppOptions{Title: "tagpick", Picker: picker, Logger: logger}

	if flags.Entity != "" {
		entity, err := client.GetEntity(ctx, flags.Entity)
		if err != nil {
			return fmt.Errorf("load entity: %w", err)
		}
		appOpts.Title = "tagpick · " + entity.Name
		appOpts.Picker.DefaultValue = suggest.Named(entity.Tags...)
		appOpts.Submit = EntitySubmit(client, entity.ID)
	}

	app, err := ui.NewApp(appOpts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	res := final.(ui.App).Result()
	if !res.Submitted {
		return ErrCancelled
	}
	logger.Info("selections submitted", "count", len(res.Selections), "entity", flags.Entity)
	return PrintResult(c.OutOrStdout(), res, flags.JSON)
}
