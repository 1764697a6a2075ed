package dashboard

import (
	"context"
	"fmt"

	"opsdash/internal/services/auth"
	"opsdash/internal/session"
	"opsdash/internal/swrcache"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dashboards available for the current tenant",
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

			key := swrcache.DashboardsKey(auth.NormalizeServer(server), tenant)
			names, err := swrcache.GetOrFetch(swrcache.NewDefault(), cmd.Context(), key,
				func(ctx context.Context) ([]string, error) {
					return client.ListDashboards(ctx, tenant)
				})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error listing dashboards: %v\n", err)
				return
			}

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No dashboards found.")
				return
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	cmd.Flags().String("tenant", "", "Tenant ID (overrides the selected tenant)")

	return cmd
}
