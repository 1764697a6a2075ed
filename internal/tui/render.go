package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"opsdash/internal/gateway"
	"opsdash/internal/panel"
	"opsdash/internal/tui/styles"
)

// --- Shared render helpers ---
//
// These are pure string builders used by both the dashboard grid tiles
// and the drill-down view. Keeping them free of model state makes them
// directly testable.

// timestampLayouts are tried in order when parsing backend timestamps.
// The backend normally emits RFC 3339 but some panel sources drop the
// zone suffix.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatKPIValue renders a KPI value with the payload's decimal places
// and unit. Decimals defaults to 1 upstream, so a bare 42 renders as
// "42.0".
func formatKPIValue(p *panel.KPIPayload) string {
	v := strconv.FormatFloat(p.Value, 'f', p.Decimals, 64)
	if p.Unit != "" {
		v += " " + p.Unit
	}
	return v
}

// formatCell renders one table cell for display. Null cells render
// empty, datetimes are reformatted for compactness, and unknown
// formats fall back to the raw value.
func formatCell(v any, format string) string {
	if v == nil {
		return ""
	}
	switch format {
	case "datetime":
		if s, ok := v.(string); ok {
			if t, ok := parseTimestamp(s); ok {
				return t.Local().Format("2006-01-02 15:04:05")
			}
			return s
		}
	case "number":
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case "percent":
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'f', 1, 64) + "%"
		}
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// aggregationNote builds the footnote shown under aggregated panels.
// Returns "" when no aggregation was applied.
func aggregationNote(info *panel.AggregationInfo) string {
	if info == nil || !info.Applied {
		return ""
	}
	note := "aggregated"
	if info.BucketInterval != "" && info.BucketInterval != "none" {
		note = fmt.Sprintf("aggregated to %s buckets", info.BucketInterval)
	}
	if info.Reason != "" {
		note += " (" + info.Reason + ")"
	}
	return note
}

// panelErrorText maps a fetch or classification error to the message
// shown inside the affected tile. Errors stay scoped to their panel;
// the rest of the dashboard keeps rendering.
func panelErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, panel.ErrTypeMismatch):
		return "no data available for this panel"
	case errors.Is(err, panel.ErrInvalidPayload):
		return "invalid data format"
	case errors.Is(err, panel.ErrUnknownPanelType):
		return "unsupported panel type"
	case errors.Is(err, gateway.ErrUnauthorized):
		return "session expired, run: opsdash auth login"
	case errors.Is(err, gateway.ErrRateLimited):
		return "rate limited, retrying on next refresh"
	case errors.Is(err, gateway.ErrNetwork):
		return "backend unreachable"
	}
	var se *gateway.StatusError
	if errors.As(err, &se) {
		if se.Detail != "" {
			return se.Detail
		}
		return fmt.Sprintf("backend returned %s", se.Status)
	}
	return err.Error()
}

// lastUpdatedLabel renders the tile's freshness line.
func lastUpdatedLabel(at time.Time, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	age := now.Sub(at).Truncate(time.Second)
	if age < time.Second {
		return "updated just now"
	}
	return "updated " + age.String() + " ago"
}

// truncate cuts s to width runes, appending an ellipsis when trimmed.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// renderPanelError renders the in-tile error body.
func renderPanelError(err error, width int) string {
	return styles.ErrorText.Render(truncate(panelErrorText(err), width))
}

// joinNonEmpty joins the non-empty parts with newlines.
func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
