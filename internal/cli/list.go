package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blogs, most liked first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.restore(cmd.Context())
	if _, err := a.blogs.Load(cmd.Context()); err != nil {
		return reported(err)
	}

	printBlogs(cmd.OutOrStdout(), a.blogs.VisibleOrder(), a.sessions.Owns, formatFlag)
	return nil
}
