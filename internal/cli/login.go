package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the platform",
		Long: `Sign in with an administrator or manager account. The token and profile
are stored in the session file and used by every following command.`,
		Example: `  pivoctl login --email admin@pivo.example --passwd secret`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("email and password are required")
			}
			c, err := a.api()
			if err != nil {
				return err
			}
			res, err := c.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if res.Token == "" {
				return errors.New("server did not issue a token")
			}
			if a.jsonOutput {
				a.printJSON(res.User)
				return nil
			}
			if res.User != nil {
				a.printOK("Logged in as %s (%s)", res.User.Name, res.User.RoleLabel())
			} else {
				a.printOK("Login successful")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "passwd", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("passwd")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.api()
			if err != nil {
				return err
			}
			if !c.Auth.IsAuthenticated() {
				// a cached profile may remain without its token
				store, err := a.session()
				if err != nil {
					return err
				}
				if err := store.Clear(); err != nil {
					return err
				}
				a.printOK("Not logged in")
				return nil
			}
			if err := c.Auth.Logout(cmd.Context()); err != nil {
				// the local session is gone either way
				warnLabel.Fprintf(a.errOut, "Warning: server did not confirm logout: %v\n", err)
			}
			if a.jsonOutput {
				a.printJSON("logged out")
				return nil
			}
			a.printOK("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			if cached {
				u := c.Auth.CurrentUser()
				if u == nil {
					return errors.New("no cached profile, run without --cached")
				}
				return a.printRecord(u)
			}
			u, err := c.Auth.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			if u == nil {
				return errors.New("server returned no profile")
			}
			return a.printRecord(u)
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "Print the stored profile without contacting the server")
	return cmd
}
