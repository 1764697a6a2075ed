package panel

import (
	"fmt"
	"time"

	"opsdash/internal/daterange"
	"opsdash/internal/panel"
	"opsdash/internal/session"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Fetch, export and watch individual panels",
	}

	cmd.AddCommand(DataCommand())
	cmd.AddCommand(ExportCommand())
	cmd.AddCommand(WatchCommand())

	return cmd
}

// buildParams assembles request params from the shared panel flags.
func buildParams(cmd *cobra.Command) (panel.RequestParams, error) {
	rangeFlag, _ := cmd.Flags().GetString("range")
	preset := session.Preset(rangeFlag)

	from, err := parseTimeFlag(cmd, "from")
	if err != nil {
		return panel.RequestParams{}, err
	}
	to, err := parseTimeFlag(cmd, "to")
	if err != nil {
		return panel.RequestParams{}, err
	}
	if from != nil || to != nil {
		preset = daterange.Custom
	}

	rng := daterange.Resolve(preset, from, to)
	params := panel.RequestParams{DateFrom: rng.From, DateTo: rng.To}

	if noAgg, _ := cmd.Flags().GetBool("no-aggregation"); noAgg {
		t := true
		params.DisableAggregation = &t
	}
	if sortCol, _ := cmd.Flags().GetString("sort"); sortCol != "" {
		order, _ := cmd.Flags().GetString("order")
		if order != "asc" && order != "desc" {
			return panel.RequestParams{}, fmt.Errorf("invalid --order %q (must be asc or desc)", order)
		}
		params.SortColumn = sortCol
		params.SortOrder = order
	}
	if page, _ := cmd.Flags().GetInt("page"); page > 1 {
		params.Page = &page
	}

	return params, nil
}

func parseTimeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q (expected RFC3339, e.g. 2026-01-02T15:04:05Z)", name, s)
	}
	return &t, nil
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("tenant", "", "Tenant ID (overrides the selected tenant)")
	cmd.Flags().String("range", "", "Date range preset (1h, 24h, 7d, 30d)")
	cmd.Flags().String("from", "", "Custom range start (RFC3339)")
	cmd.Flags().String("to", "", "Custom range end (RFC3339)")
	cmd.Flags().Bool("no-aggregation", false, "Request raw, unbucketed data")
	cmd.Flags().String("sort", "", "Sort column (tables only)")
	cmd.Flags().String("order", "desc", "Sort order: asc or desc")
	cmd.Flags().Int("page", 1, "Result page (tables only)")
}
