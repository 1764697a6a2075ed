package auth

import (
	"errors"
	"fmt"
	"strings"

	"opsdash/internal/gateway"
	"opsdash/internal/services/auth"
	"opsdash/internal/session"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [server]",
		Short: "Show authentication status for a dashboard backend",
		Long: `Show whether a token is stored for a dashboard backend.

With no argument, the configured server is checked.

Example:
  opsdash auth status
  opsdash auth status dash.example.com`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var server string
			if len(args) == 1 {
				server = strings.TrimSpace(args[0])
			} else {
				resolved, err := session.ServerURL(cmd.Flag("server").Value.String())
				if err != nil {
					return err
				}
				server = resolved
			}

			store := auth.DefaultStore()
			_, err := store.GetToken(server)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: logged in\n", server)
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not logged in\n", server)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", server, err)
			}

			// The health endpoint needs no auth, so this distinguishes
			// "bad token" from "backend down".
			if err := gateway.New(server, store).Health(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "backend: unreachable (%v)\n", err)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "backend: reachable")
			}
			return nil
		},
	}

	return cmd
}
