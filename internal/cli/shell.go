package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/bloglist/internal/blogs"
	"github.com/rcliao/bloglist/internal/model"
)

const shellHelp = `commands:
  list              show blogs, most liked first
  add               create a blog (asks for title, author, url)
  like <id>         like a blog
  rm <id>           remove a blog you added
  login [username]  log in
  logout            log out
  whoami            show the logged in user
  reload            fetch the blog list again
  help              this text
  quit              leave the shell`

func init() {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session",
		Long:  "Start an interactive session. Notifications are shown as they happen and expire after a few seconds.",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}

	RootCmd.AddCommand(cmd)
}

// shell is one interactive session over an app.
type shell struct {
	a   *app
	lr  *lineReader
	out io.Writer

	creating bool // create workflow open
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	sh := &shell{
		a:   a,
		lr:  newLineReader(cmd.InOrStdin(), cmd.OutOrStdout()),
		out: cmd.OutOrStdout(),
	}
	a.blogs.OnCreateDone(func(blogs.CreateResult) { sh.creating = false })

	return sh.run(cmd.Context())
}

func (sh *shell) run(ctx context.Context) error {
	if sess, ok := sh.a.life.Start(ctx); ok {
		fmt.Fprintf(sh.out, "%s logged in\n", clean(sess.DisplayName))
	} else {
		fmt.Fprintln(sh.out, "Please log in")
	}

	for {
		line, ok := sh.lr.ask("> ")
		if !ok {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		sh.dispatch(ctx, fields[0], fields[1:])
	}
}

func (sh *shell) dispatch(ctx context.Context, name string, args []string) {
	switch name {
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "list":
		printBlogs(sh.out, sh.a.blogs.VisibleOrder(), sh.a.sessions.Owns, formatFlag)
	case "reload":
		sh.a.blogs.Load(ctx)
	case "whoami":
		if sess, ok := sh.a.sessions.Current(); ok {
			fmt.Fprintf(sh.out, "%s logged in as %s\n", clean(sess.DisplayName), sess.Username)
		} else {
			fmt.Fprintln(sh.out, "anonymous")
		}
	case "login":
		sh.login(ctx, args)
	case "logout":
		sh.a.life.Logout(ctx)
	case "add":
		sh.add(ctx)
	case "like":
		if len(args) != 1 {
			fmt.Fprintln(sh.out, "usage: like <id>")
			return
		}
		sh.a.blogs.Like(ctx, args[0])
	case "rm":
		if len(args) != 1 {
			fmt.Fprintln(sh.out, "usage: rm <id>")
			return
		}
		if !sh.a.blogs.Owns(args[0]) {
			fmt.Fprintln(sh.out, "note: this blog was added by another user")
		}
		sh.a.blogs.Remove(ctx, args[0], sh.lr)
	default:
		fmt.Fprintf(sh.out, "unknown command %q, try help\n", name)
	}
}

func (sh *shell) login(ctx context.Context, args []string) {
	if _, ok := sh.a.sessions.Current(); ok {
		fmt.Fprintln(sh.out, "already logged in, logout first")
		return
	}
	entry := &credentialEntry{}
	if len(args) > 0 {
		entry.username = args[0]
	} else {
		entry.username, _ = sh.lr.ask("username: ")
	}
	entry.password, _ = sh.lr.ask("password: ")
	if err := sh.a.life.Login(ctx, entry.username, entry.password, entry); err == nil {
		sh.a.blogs.Load(ctx)
	}
}

// add runs the create workflow. It stays open until the create completion
// callback closes it, whatever the outcome.
func (sh *shell) add(ctx context.Context) {
	if _, ok := sh.a.sessions.Current(); !ok {
		fmt.Fprintln(sh.out, "log in to create blogs")
		return
	}
	if sh.creating {
		fmt.Fprintln(sh.out, "a blog is already being created")
		return
	}
	sh.creating = true
	var d model.Draft
	var ok bool
	if d.Title, ok = sh.lr.ask("title: "); !ok {
		sh.creating = false
		return
	}
	if d.Author, ok = sh.lr.ask("author: "); !ok {
		sh.creating = false
		return
	}
	if d.URL, ok = sh.lr.ask("url: "); !ok {
		sh.creating = false
		return
	}

	if _, err := sh.a.blogs.Add(ctx, d); errors.Is(err, blogs.ErrInFlight) {
		sh.creating = false
	}
}
