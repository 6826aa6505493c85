package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/tagpick/internal/api"
	"github.com/gravitrone/tagpick/internal/config"
)

// RunInteractiveLogin prompts for username, calls login API, and persists config.
// Settings already in the config file are kept.
func RunInteractiveLogin(ctx context.Context, in io.Reader, out io.Writer, serverURL string) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	if username == "" {
		return fmt.Errorf("username is required")
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	client := api.NewClient(cfg.Server(), "")
	resp, err := client.Login(ctx, username)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.APIKey = resp.APIKey
	cfg.Username = resp.Username

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s\n", resp.Username)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `tagpick login` command.
func LoginCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a tag server",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveLogin(c.Context(), os.Stdin, c.OutOrStdout(), server)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "server URL (default from config)")
	return cmd
}
