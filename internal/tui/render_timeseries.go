package tui

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"opsdash/internal/panel"
	"opsdash/internal/tui/styles"
)

// seriesPalette cycles across datasets when a panel carries more than
// one series.
var seriesPalette = []lipgloss.Color{
	styles.Blue,
	styles.Green,
	styles.Yellow,
	styles.Red,
}

// renderTimeSeries draws a braille line chart for the payload, with a
// legend when the panel carries multiple series and an aggregation
// footnote when the server bucketed the data. Unparseable timestamps
// and unpaired values are skipped rather than failing the tile.
func renderTimeSeries(p *panel.TimeSeriesPayload, info *panel.AggregationInfo, width, height int) string {
	legend := timeSeriesLegend(p)
	note := ""
	if n := aggregationNote(info); n != "" {
		note = styles.MutedText.Render(truncate(n, width))
	}

	chartHeight := height
	if legend != "" {
		chartHeight--
	}
	if note != "" {
		chartHeight--
	}
	if chartHeight < 3 {
		chartHeight = 3
	}

	chart := timeserieslinechart.New(width, chartHeight)
	plotted := 0
	for i, s := range p.Series {
		style := lipgloss.NewStyle().Foreground(seriesPalette[i%len(seriesPalette)])
		name := s.Label
		if name == "" {
			name = "series"
		}
		chart.SetDataSetStyle(name, style)
		for j := 0; j < s.Points(); j++ {
			t, ok := parseTimestamp(s.Timestamps[j])
			if !ok {
				continue
			}
			chart.PushDataSet(name, timeserieslinechart.TimePoint{Time: t, Value: s.Values[j]})
			plotted++
		}
	}

	if plotted == 0 {
		empty := styles.MutedText.Render("no data points in range")
		return joinNonEmpty(empty, note)
	}

	chart.DrawBrailleAll()
	return joinNonEmpty(legend, chart.View(), note)
}

// timeSeriesLegend builds a colored label line for multi-series panels.
// Single-series panels skip the legend to save a row.
func timeSeriesLegend(p *panel.TimeSeriesPayload) string {
	if len(p.Series) < 2 {
		return ""
	}
	parts := make([]string, 0, len(p.Series))
	for i, s := range p.Series {
		label := s.Label
		if label == "" {
			label = "series"
		}
		style := lipgloss.NewStyle().Foreground(seriesPalette[i%len(seriesPalette)])
		parts = append(parts, style.Render("─ "+label))
	}
	return strings.Join(parts, "  ")
}
