package tui

import (
	"fmt"
	"strings"

	"opsdash/internal/panel"
	"opsdash/internal/tui/styles"
)

// renderHealth draws one dot + label line per service, with the last
// check time muted after the name. A service with an error message
// shows it muted after that; the list is clipped to the tile height.
func renderHealth(p *panel.HealthStatusPayload, width, height int) string {
	if len(p.Services) == 0 {
		return styles.MutedText.Render("no services reported")
	}

	lines := make([]string, 0, len(p.Services))
	for _, svc := range p.Services {
		line := styles.StatusIndicator(svc.StatusLabel, svc.StatusColor) +
			" " + styles.Value.Render(svc.ServiceName)
		if lc := lastCheckLabel(svc.LastCheck); lc != "" {
			line += "  " + styles.MutedText.Render(lc)
		}
		if svc.ErrorMessage != "" {
			line += "  " + styles.MutedText.Render(truncate(svc.ErrorMessage, width/2))
		}
		lines = append(lines, line)
	}

	if height > 0 && len(lines) > height {
		shown := height - 1
		if shown < 1 {
			shown = 1
		}
		hidden := len(lines) - shown
		lines = append(lines[:shown],
			styles.MutedText.Render(fmt.Sprintf("… %d more", hidden)))
	}

	return strings.Join(lines, "\n")
}

// lastCheckLabel formats a service's last check time for display.
// Unparseable timestamps are shown as sent rather than dropped.
func lastCheckLabel(s string) string {
	if s == "" {
		return ""
	}
	if t, ok := parseTimestamp(s); ok {
		return "checked " + t.Local().Format("15:04:05")
	}
	return "checked " + s
}
