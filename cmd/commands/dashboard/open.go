package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"

	"opsdash/internal/gateway"
	"opsdash/internal/layout"
	"opsdash/internal/services/auth"
	"opsdash/internal/session"
	"opsdash/internal/tenantstore"
	"opsdash/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

func OpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [name]",
		Short: "Open a dashboard in the terminal",
		Long: `Open a dashboard in the terminal. Defaults to the "default" dashboard.

Keys inside the view:
  tab/arrows  move focus between panels
  1-4         switch date range (1h, 24h, 7d, 30d)
  r           refresh all panels now
  enter       drill into the focused panel
  q           quit

A layout file (--layout) can reorder panels, hide them, retitle them,
or override their refresh intervals without touching the server.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := "default"
			if len(args) == 1 {
				name = args[0]
			}

			serverFlag := cmd.Flag("server").Value.String()
			server, err := session.ServerURL(serverFlag)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			client := gateway.New(server, auth.DefaultStore())

			tenantFlag, _ := cmd.Flags().GetString("tenant")
			tenant, err := session.Tenant(server, tenantFlag)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			var dash *gateway.Dashboard
			loadErr := spinner.New().
				Title(fmt.Sprintf("Loading dashboard %q...", name)).
				Accessible(os.Getenv("ACCESSIBLE") != "").
				Output(os.Stderr).
				ActionWithErr(func(ctx context.Context) error {
					d, err := client.Dashboard(ctx, tenant, name)
					dash = d
					return err
				}).
				Run()
			if loadErr != nil {
				if errors.Is(loadErr, huh.ErrUserAborted) || errors.Is(loadErr, context.Canceled) {
					return
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", loadErr)
				return
			}

			if layoutPath, _ := cmd.Flags().GetString("layout"); layoutPath != "" {
				ov, err := layout.Load(layoutPath)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error reading layout file: %v\n", err)
					return
				}
				dash.Panels = ov.Apply(dash.Name, dash.Panels)
			}

			if len(dash.Panels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Dashboard has no panels.")
				return
			}

			rangeFlag, _ := cmd.Flags().GetString("range")

			err = tui.RunDashboard(tui.DashboardOptions{
				Fetcher:    client,
				Tenant:     tenant,
				TenantName: tenantName(server, tenant),
				Dashboard:  dash,
				Preset:     session.Preset(rangeFlag),
				ExportDir:  session.ExportDir(),
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		},
	}

	cmd.Flags().String("tenant", "", "Tenant ID (overrides the selected tenant)")
	cmd.Flags().String("range", "", "Initial date range (1h, 24h, 7d, 30d)")
	cmd.Flags().String("layout", "", "Path to a YAML layout override file")

	return cmd
}

// tenantName returns the stored display name for the tenant, or "".
func tenantName(server, tenantID string) string {
	store, err := tenantstore.Open()
	if err != nil {
		return ""
	}
	defer store.Close()

	u, err := store.Current(auth.NormalizeServer(server))
	if err != nil || u == nil || u.TenantID != tenantID {
		return ""
	}
	return u.Name
}
