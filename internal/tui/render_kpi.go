package tui

import (
	"github.com/charmbracelet/lipgloss"

	"opsdash/internal/panel"
	"opsdash/internal/tui/styles"
)

// renderKPI draws a single large value centered in the tile, colored
// by the server-evaluated threshold. Threshold evaluation is entirely
// backend-side; the client only maps the color.
func renderKPI(p *panel.KPIPayload, width, height int) string {
	color := styles.ThresholdColor(p.ThresholdColor)
	value := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(formatKPIValue(p))

	body := value
	if p.ThresholdStatus != "" {
		status := lipgloss.NewStyle().Foreground(color).Render(p.ThresholdStatus)
		body = lipgloss.JoinVertical(lipgloss.Center, value, status)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
