package panel

import (
	"encoding/json"
	"fmt"

	"opsdash/internal/gateway"
	"opsdash/internal/panel"
	"opsdash/internal/retry"
	"opsdash/internal/session"

	"github.com/spf13/cobra"
)

func DataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data <panel-id>",
		Short: "Fetch one panel's data and print it as JSON",
		Long: `Fetch one panel's data and print the response envelope as JSON.

Transient failures (network errors, 5xx) are retried with backoff.

Example:
  opsdash panel data error-rate --range 7d --no-aggregation`,
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

			params, err := buildParams(cmd)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			var env *panel.Envelope
			fetchErr := retry.Do(cmd.Context(), retry.DefaultConfig(), gateway.IsTransient, func() error {
				e, err := client.PanelData(cmd.Context(), tenant, args[0], params)
				if err != nil {
					return err
				}
				env = e
				return nil
			})
			if fetchErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error fetching panel data: %v\n", fetchErr)
				return
			}

			out, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		},
	}

	addRequestFlags(cmd)

	return cmd
}
