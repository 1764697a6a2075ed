package tenant

import (
	"errors"
	"fmt"

	"opsdash/internal/gateway"
	"opsdash/internal/services/auth"
	"opsdash/internal/session"
	"opsdash/internal/tenantstore"
	"opsdash/internal/tui"

	"github.com/spf13/cobra"
)

func UseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [tenant-id]",
		Short: "Select the tenant subsequent commands operate on",
		Long: `Select the tenant subsequent commands operate on.

With no argument an interactive picker is shown, with recently used
tenants listed first. The selection is stored per server.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			server, err := session.ServerURL(cmd.Flag("server").Value.String())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			client := gateway.New(server, auth.DefaultStore())
			tenants, err := client.ListTenants(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error listing tenants: %v\n", err)
				return
			}
			if len(tenants) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No tenants accessible on this server.")
				return
			}

			store, err := tenantstore.Open()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			defer store.Close()

			normalized := auth.NormalizeServer(server)

			var selected *gateway.Tenant
			if len(args) == 1 {
				selected = findTenant(tenants, args[0])
				if selected == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Tenant %q not found. Run: opsdash tenant list\n", args[0])
					return
				}
			} else {
				recent, _ := store.RecentlyUsed(normalized, 5)
				selected, err = tui.PickTenant(tenants, recent)
				if err != nil {
					if errors.Is(err, tui.ErrPickAborted) {
						return
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
			}

			if !selected.IsActive {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: tenant %s is inactive\n", selected.TenantID)
			}

			if err := store.SetCurrent(normalized, selected.TenantID, selected.Name); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error saving selection: %v\n", err)
				return
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Now using tenant %s (%s)\n", selected.TenantID, selected.Name)
		},
	}

	return cmd
}

func findTenant(tenants []gateway.Tenant, id string) *gateway.Tenant {
	for i := range tenants {
		if tenants[i].TenantID == id || tenants[i].ID == id {
			return &tenants[i]
		}
	}
	return nil
}
