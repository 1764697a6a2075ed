package tenant

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage the tenant context",
		Long: `Manage the tenant context commands operate on.

Every panel request is scoped to a tenant. Select one with "tenant use";
the selection is remembered per server across invocations.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(UseCommand())
	cmd.AddCommand(CurrentCommand())

	return cmd
}
