package tenant

import (
	"fmt"

	"opsdash/internal/services/auth"
	"opsdash/internal/session"
	"opsdash/internal/tenantstore"

	"github.com/spf13/cobra"
)

func CurrentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the currently selected tenant",
		Run: func(cmd *cobra.Command, args []string) {
			server, err := session.ServerURL(cmd.Flag("server").Value.String())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			store, err := tenantstore.Open()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			defer store.Close()

			u, err := store.Current(auth.NormalizeServer(server))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No tenant selected. Run: opsdash tenant use")
				return
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) on %s\n", u.TenantID, u.Name, server)
		},
	}

	return cmd
}
