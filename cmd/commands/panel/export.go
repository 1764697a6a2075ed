package panel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"opsdash/internal/export"
	"opsdash/internal/gateway"
	"opsdash/internal/panel"
	"opsdash/internal/retry"
	"opsdash/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func ExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <panel-id>...",
		Short: "Export panel data to CSV or JSON files",
		Long: `Export panel data to CSV or JSON files, one file per panel.

Multiple panels are fetched concurrently. Files are named
<panel-id>_<timestamp>.<ext> and written to --out (or the configured
export directory).

Example:
  opsdash panel export error-rate slow-queries --format csv --range 30d`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			formatFlag, _ := cmd.Flags().GetString("format")
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

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

			outDir, _ := cmd.Flags().GetString("out")
			if outDir == "" {
				outDir = session.ExportDir()
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			stamp := time.Now().Format("20060102-150405")

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(4)
			paths := make([]string, len(args))

			for i, panelID := range args {
				g.Go(func() error {
					var env *panel.Envelope
					err := retry.Do(ctx, retry.DefaultConfig(), gateway.IsTransient, func() error {
						e, err := client.PanelData(ctx, tenant, panelID, params)
						if err != nil {
							return err
						}
						env = e
						return nil
					})
					if err != nil {
						return fmt.Errorf("panel %s: %w", panelID, err)
					}

					payload, err := panel.Classify(env)
					if err != nil {
						return fmt.Errorf("panel %s: %w", panelID, err)
					}

					data, err := export.Marshal(payload, format)
					if err != nil {
						return fmt.Errorf("panel %s: %w", panelID, err)
					}

					path := filepath.Join(outDir, fmt.Sprintf("%s_%s.%s", panelID, stamp, format.Extension()))
					if err := os.WriteFile(path, data, 0o644); err != nil {
						return fmt.Errorf("panel %s: %w", panelID, err)
					}
					paths[i] = path
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
			}
		},
	}

	addRequestFlags(cmd)
	cmd.Flags().String("format", "csv", "Export format: csv or json")
	cmd.Flags().String("out", "", "Output directory (defaults to the configured export dir)")

	return cmd
}
