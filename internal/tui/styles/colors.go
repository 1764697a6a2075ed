// Package styles provides the centralized color palette and style definitions
// for the opsdash TUI. All visual constants live here so the rest of the TUI
// code can reference a single source of truth.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// --- Color palette (professional & minimal) ---

var (
	// Core text
	White   = lipgloss.Color("#E2E2E2")
	Gray    = lipgloss.Color("#888888")
	Muted   = lipgloss.Color("#555555")
	DimGray = lipgloss.Color("#444444")
	Dark    = lipgloss.Color("#333333")

	// Accent
	Blue     = lipgloss.Color("#5FAFFF")
	DimBlue  = lipgloss.Color("#3A6FA0")
	DarkBlue = lipgloss.Color("#1A2F40")

	// Status
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")

	// Surfaces
	SurfaceBg   = lipgloss.Color("#1A1A2E")
	SurfaceDim  = lipgloss.Color("#16213E")
	SurfaceCard = lipgloss.Color("#0F3460")
)

// ThresholdColor converts a backend-supplied hex color to a terminal
// color, falling back to the neutral gray when the value is missing or
// malformed. The backend's stock palette maps onto ours so KPI tiles
// match the rest of the UI.
func ThresholdColor(hex string) lipgloss.Color {
	switch strings.ToUpper(strings.TrimSpace(hex)) {
	case "":
		return Gray
	case "#10B981":
		return Green
	case "#F59E0B":
		return Yellow
	case "#EF4444":
		return Red
	case "#6B7280":
		return Gray
	}
	if len(hex) == 7 && hex[0] == '#' {
		return lipgloss.Color(hex)
	}
	return Gray
}
