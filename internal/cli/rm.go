package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/bloglist/internal/blogs"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a blog you added",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	id := args[0]
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.start(cmd.Context())

	var confirm blogs.Confirmer = newLineReader(cmd.InOrStdin(), cmd.ErrOrStderr())
	if yes {
		confirm = blogs.ConfirmFunc(func(string) bool { return true })
	}

	err = a.blogs.Remove(cmd.Context(), id, confirm)
	if errors.Is(err, blogs.ErrDeclined) {
		return nil
	}
	if err != nil {
		return reported(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", id)
	return nil
}
