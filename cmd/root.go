package cmd

import (
	"os"

	"opsdash/cmd/commands/auth"
	cfgcmd "opsdash/cmd/commands/config"
	"opsdash/cmd/commands/dashboard"
	panelcmd "opsdash/cmd/commands/panel"
	"opsdash/cmd/commands/tenant"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "opsdash",
		Short: "A terminal client for multi-tenant operations dashboards",
		Long: `opsdash is a terminal client for multi-tenant operations dashboards.
It renders live time series, KPI, health and table panels in the
terminal, with per-panel polling, drill-down, and CSV/JSON export.

Quick start:
  opsdash auth login dash.example.com   # Store your API token
  opsdash tenant use                    # Pick the tenant to work on
  opsdash dashboard open                # Open the live dashboard
  opsdash panel data error-rate        # Fetch one panel's data`,
	}

	cmd.PersistentFlags().String("server", "", "Dashboard backend URL (overrides the server-url config key)")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(tenant.NewCommand())
	cmd.AddCommand(dashboard.NewCommand())
	cmd.AddCommand(panelcmd.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
