package tenant

import (
	"context"
	"fmt"
	"text/tabwriter"

	"opsdash/internal/gateway"
	"opsdash/internal/services/auth"
	"opsdash/internal/session"
	"opsdash/internal/swrcache"
	"opsdash/internal/tenantstore"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants accessible to the current user",
		Run: func(cmd *cobra.Command, args []string) {
			server, err := session.ServerURL(cmd.Flag("server").Value.String())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			client := gateway.New(server, auth.DefaultStore())
			refresh, _ := cmd.Flags().GetBool("refresh")

			cache := swrcache.NewDefault()
			key := swrcache.TenantsKey(auth.NormalizeServer(server))
			if refresh {
				_ = cache.Invalidate(key)
			}

			tenants, err := swrcache.GetOrFetch(cache, cmd.Context(), key,
				func(ctx context.Context) ([]gateway.Tenant, error) {
					return client.ListTenants(ctx)
				})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error listing tenants: %v\n", err)
				return
			}

			if len(tenants) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tenants found.")
				return
			}

			current := currentTenantID(server)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TENANT ID\tNAME\tACTIVE\tCURRENT")
			fmt.Fprintln(w, "---------\t----\t------\t-------")

			for _, t := range tenants {
				active := "yes"
				if !t.IsActive {
					active = "no"
				}
				marker := ""
				if t.TenantID == current {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.TenantID, t.Name, active, marker)
			}

			w.Flush()
		},
	}

	cmd.Flags().Bool("refresh", false, "Bypass the local catalog cache")

	return cmd
}

// currentTenantID returns the persisted selection for server, or "".
// Failures are swallowed: the marker column is cosmetic.
func currentTenantID(server string) string {
	store, err := tenantstore.Open()
	if err != nil {
		return ""
	}
	defer store.Close()

	u, err := store.Current(auth.NormalizeServer(server))
	if err != nil || u == nil {
		return ""
	}
	return u.TenantID
}
