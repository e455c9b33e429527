package cli

import (
	"github.com/spf13/cobra"
	"github.com/thepivo/pivoadmin/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var server string

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configure pivoctl",
		Long: `Configure pivoctl. Without a subcommand, writes the given settings to the
config file.

Examples:
  # Point pivoctl at a server; /api is appended when no path is given
  pivoctl config --server https://admin.pivo.example

  # Show the effective configuration
  pivoctl config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("server") {
				return cmd.Help()
			}
			a.cfg.ServerURL = config.MorphServer(server)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			if err := a.cfg.WriteConfig(a.configPath); err != nil {
				return err
			}
			if a.jsonOutput {
				a.printJSON(map[string]any{"server_url": a.cfg.ServerURL})
				return nil
			}
			a.printOK("Server set to %s", a.cfg.ServerURL)
			return nil
		},
	}
	configCmd.Flags().StringVarP(&server, "server", "s", "", "Server URL, e.g. https://admin.pivo.example")

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.session()
			if err != nil {
				return err
			}
			view := map[string]any{
				"config_file":  a.configPath,
				"server_url":   a.cfg.ServerURL,
				"session_file": store.Path(),
				"logged_in":    store.GetToken() != "",
			}
			if a.cfg.Timeout > 0 {
				view["timeout"] = a.cfg.Timeout.String()
			}
			if a.cfg.LogLevel != "" {
				view["log_level"] = a.cfg.LogLevel
			}
			if u := store.GetUser(); u != nil {
				view["user"] = u.Email
			}
			return a.printRecord(view)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored session without contacting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.session()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			if a.jsonOutput {
				a.printJSON("session cleared")
				return nil
			}
			a.printOK("Session cleared")
			return nil
		},
	})

	return configCmd
}
