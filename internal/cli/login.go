package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Long:  "Log in. Missing username or password are read from stdin.",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}

	RootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

// credentialEntry is the username/password being typed. It is wiped after
// a successful login.
type credentialEntry struct {
	username string
	password string
}

func (e *credentialEntry) Reset() {
	e.username = ""
	e.password = ""
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	entry := &credentialEntry{username: username, password: password}
	lr := newLineReader(cmd.InOrStdin(), cmd.ErrOrStderr())
	if entry.username == "" {
		entry.username, _ = lr.ask("username: ")
	}
	if entry.password == "" {
		entry.password, _ = lr.ask("password: ")
	}

	return reported(a.life.Login(cmd.Context(), entry.username, entry.password, entry))
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.restore(cmd.Context())
	if _, ok := a.sessions.Current(); !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
		return nil
	}
	a.life.Logout(cmd.Context())
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp(loadConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.restore(cmd.Context())
	sess, ok := a.sessions.Current()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
		return nil
	}
	if formatFlag == "json" {
		fmt.Fprintf(cmd.OutOrStdout(), `{"username":%q,"name":%q}`+"\n", sess.Username, sess.DisplayName)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s logged in as %s\n", clean(sess.DisplayName), sess.Username)
	return nil
}
