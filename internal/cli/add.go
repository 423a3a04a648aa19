package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/bloglist/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a blog",
		Long:  "Create a blog. The service validates the fields and reports what is missing.",
		Args:  cobra.NoArgs,
		RunE:  runAdd,
	}

	cmd.Flags().StringP("title", "t", "", "Title")
	cmd.Flags().StringP("author", "a", "", "Author")
	cmd.Flags().StringP("url", "u", "", "URL")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	url, _ := cmd.Flags().GetString("url")

	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.restore(cmd.Context())
	rec, err := a.blogs.Add(cmd.Context(), model.Draft{Title: title, Author: author, URL: url})
	if err != nil {
		return reported(err)
	}

	printBlog(cmd.OutOrStdout(), rec, formatFlag)
	return nil
}
