package auth

import (
	"errors"
	"fmt"
	"strings"

	"opsdash/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout <server>",
		Short: "Remove the stored API token for a dashboard backend",
		Long: `Remove the stored API token for a dashboard backend from the local keychain.

Example:
  opsdash auth logout dash.example.com`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := strings.TrimSpace(args[0])
			if server == "" {
				return fmt.Errorf("server is required")
			}

			store := auth.DefaultStore()
			err := store.DeleteToken(server)
			if errors.Is(err, auth.ErrTokenNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No stored token for %s\n", server)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", server)
			return nil
		},
	}

	return cmd
}
