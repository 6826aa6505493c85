package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gravitrone/tagpick/internal/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var flags cmd.PickFlags
	root := &cobra.Command{
		Use:   "tagpick",
		Short: "tagpick - pick tags in the terminal",
		Long:  "tagpick: type to search suggestions, collect a set of tags, and print or save them.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.RunPicker(c, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Bind(root)

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.TagsCmd())
	return root
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if errors.Is(err, cmd.ErrCancelled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
