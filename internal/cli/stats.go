package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show client database statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	a, err := openApp(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.slots.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
