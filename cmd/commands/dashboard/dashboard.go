package dashboard

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse and open dashboards",
		Long: `Browse and open dashboards for the selected tenant.

"dashboard open" starts the live terminal view: panels poll on their
configured interval and the date range applies to every panel at once.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(OpenCommand())

	return cmd
}
