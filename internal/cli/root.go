// Package cli implements the bloglist terminal client commands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/bloglist/internal/config"
)

var (
	dbPath     string
	serverURL  string
	formatFlag string
)

// errReported marks a failure the user has already seen as a notification.
var errReported = errors.New("reported")

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "bloglist",
	Short: "Terminal client for the blog list service",
	Long:  "Log in, list blogs, and create, like, or remove them. The session survives restarts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Client database path (default: $BLOGLIST_DB or ~/.bloglist/client.db)")
	RootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Service URL (default: $BLOGLIST_URL or http://localhost:3003)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	return cfg
}

// reported wraps err so Execute does not print it a second time.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errReported, err)
}
