package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "like <id>",
		Short: "Like a blog",
		Args:  cobra.ExactArgs(1),
		RunE:  runLike,
	}

	RootCmd.AddCommand(cmd)
}

func runLike(cmd *cobra.Command, args []string) error {
	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.start(cmd.Context())
	rec, err := a.blogs.Like(cmd.Context(), args[0])
	if err != nil {
		return reported(err)
	}

	printBlog(cmd.OutOrStdout(), rec, formatFlag)
	return nil
}
