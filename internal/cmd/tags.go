package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/tagpick/internal/api"
	"github.com/gravitrone/tagpick/internal/config"
)

// TagsCmd returns the `tagpick tags` command, which lists taxonomy entries.
func TagsCmd() *cobra.Command {
	var (
		kind     string
		limit    int
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "tags [query]",
		Short: "List taxonomy entries matching a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			if kind == "" {
				kind = cfg.Kind()
			}
			if limit <= 0 {
				limit = cfg.SuggestionLimit()
			}
			query := api.TaxonomyQuery{Limit: limit, IncludeInactive: inactive}
			if len(args) == 1 {
				query.Search = strings.TrimSpace(args[0])
			}

			client := api.NewClient(cfg.Server(), cfg.APIKey)
			entries, err := client.ListTaxonomy(c.Context(), kind, query)
			if err != nil {
				return fmt.Errorf("list %s: %w", kind, err)
			}
			printTaxonomy(c.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "taxonomy kind (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum entries to list")
	cmd.Flags().BoolVarP(&inactive, "all", "a", false, "include inactive entries")
	return cmd
}

func printTaxonomy(out io.Writer, entries []api.TaxonomyEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "no entries found")
		return
	}
	for _, e := range entries {
		line := "  " + e.Name
		if e.UsageCount > 0 {
			line += fmt.Sprintf("  (%d)", e.UsageCount)
		}
		if !e.IsActive {
			line += "  [inactive]"
		}
		if e.Description != nil && *e.Description != "" {
			line += "  " + *e.Description
		}
		fmt.Fprintln(out, line)
	}
}
