package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"opsdash/internal/gateway"
	"opsdash/internal/services/auth"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <server>",
		Short: "Store an API token for a dashboard backend",
		Long: `Store an API token for a dashboard backend using the local keychain.

The token is verified against the backend before it is accepted.

Example:
  opsdash auth login dash.example.com`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			server := strings.TrimSpace(args[0])
			if server == "" {
				fmt.Fprintln(os.Stderr, "server is required")
				return
			}

			token, err := cmd.Flags().GetString("token")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}

			token = strings.TrimSpace(token)
			if token == "" {
				fmt.Fprint(os.Stdout, "Enter API token: ")
				bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stdout)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return
				}
				token = strings.TrimSpace(string(bytes))
			}

			if token == "" {
				fmt.Fprintln(os.Stderr, "token cannot be empty")
				return
			}

			store := auth.DefaultStore()
			if err := store.SetToken(server, token); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}

			// Verify the stored credential actually works before
			// declaring success; on failure the token stays stored so
			// the user can retry against a flaky backend.
			client := gateway.New(server, store)
			var tenants int
			verifyErr := spinner.New().
				Title("Verifying credentials...").
				Accessible(os.Getenv("ACCESSIBLE") != "").
				Output(os.Stderr).
				ActionWithErr(func(ctx context.Context) error {
					ts, err := client.ListTenants(ctx)
					tenants = len(ts)
					return err
				}).
				Run()
			if verifyErr != nil {
				if errors.Is(verifyErr, huh.ErrUserAborted) || errors.Is(verifyErr, context.Canceled) {
					return
				}
				if errors.Is(verifyErr, gateway.ErrUnauthorized) {
					fmt.Fprintf(os.Stderr, "Token saved but rejected by %s: %v\n", server, verifyErr)
					return
				}
				fmt.Fprintf(os.Stderr, "Token saved but could not be verified: %v\n", verifyErr)
				return
			}

			fmt.Fprintf(os.Stdout, "Logged in to %s (%d tenants accessible)\n", server, tenants)
		},
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}
