package panel

import (
	"fmt"

	"opsdash/internal/gateway"
	"opsdash/internal/session"
	"opsdash/internal/tui"

	"github.com/spf13/cobra"
)

func WatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <panel-id>",
		Short: "Watch a single panel live in the terminal",
		Long: `Watch a single panel live in the terminal. The panel polls on the
given interval; press enter to drill in, q to quit.

Example:
  opsdash panel watch error-rate --interval 30`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			serverFlag := cmd.Flag("server").Value.String()
			client, err := session.Client(serverFlag)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			server, _ := session.ServerURL(serverFlag)
			tenantFlag, _ := cmd.Flags().GetString("tenant")
			tenant, err := session.Tenant(server, tenantFlag)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			interval, _ := cmd.Flags().GetInt("interval")
			if interval < 5 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: --interval must be at least 5 seconds")
				return
			}

			rangeFlag, _ := cmd.Flags().GetString("range")

			dash := &gateway.Dashboard{
				Name:            args[0],
				RefreshInterval: interval,
				Panels: []gateway.PanelRef{
					{ID: args[0], Position: gateway.GridPosition{Width: 12, Height: 4}},
				},
			}

			err = tui.RunDashboard(tui.DashboardOptions{
				Fetcher:   client,
				Tenant:    tenant,
				Dashboard: dash,
				Preset:    session.Preset(rangeFlag),
				ExportDir: session.ExportDir(),
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		},
	}

	cmd.Flags().String("tenant", "", "Tenant ID (overrides the selected tenant)")
	cmd.Flags().String("range", "", "Date range preset (1h, 24h, 7d, 30d)")
	cmd.Flags().Int("interval", 60, "Poll interval in seconds")

	return cmd
}
