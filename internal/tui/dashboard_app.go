package tui

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opsdash/internal/daterange"
	"opsdash/internal/gateway"
	"opsdash/internal/tui/components"
	"opsdash/internal/tui/styles"
)

// --- App view ---

type dashView int

const (
	dashViewGrid dashView = iota
	dashViewDrill
)

// --- App model ---

// dashboardModel is the top-level Bubbletea model for the live
// dashboard. It owns one tile per panel, the ambient tenant and date
// range selection, and the drill-down sub-model. Each tile polls on
// its own cadence; background panels keep refreshing while a
// drill-down is open.
type dashboardModel struct {
	fetcher    PanelFetcher
	tenant     string
	tenantName string
	dash       *gateway.Dashboard
	exportDir  string

	view  dashView
	tiles []panelTile
	byID  map[string]int
	focus int

	// Ambient date range selection, shared by every panel. Fixed
	// presets re-resolve to concrete bounds on every fetch.
	preset     daterange.Preset
	customFrom *time.Time
	customTo   *time.Time

	drill drilldownModel

	width  int
	height int
}

// DashboardOptions configures a dashboard TUI session.
type DashboardOptions struct {
	Fetcher    PanelFetcher
	Tenant     string
	TenantName string
	Dashboard  *gateway.Dashboard
	Preset     daterange.Preset
	ExportDir  string
}

// RunDashboard starts the live dashboard and blocks until the user
// quits.
func RunDashboard(opts DashboardOptions) error {
	m := newDashboardModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newDashboardModel(opts DashboardOptions) dashboardModel {
	preset := opts.Preset
	if preset == "" {
		preset = daterange.Last24h
	}

	m := dashboardModel{
		fetcher:    opts.Fetcher,
		tenant:     opts.Tenant,
		tenantName: opts.TenantName,
		dash:       opts.Dashboard,
		exportDir:  opts.ExportDir,
		view:       dashViewGrid,
		preset:     preset,
		byID:       make(map[string]int, len(opts.Dashboard.Panels)),
	}
	for i, ref := range opts.Dashboard.Panels {
		m.tiles = append(m.tiles, newPanelTile(ref, opts.Fetcher, opts.Tenant, opts.Dashboard.RefreshInterval))
		m.byID[ref.ID] = i
	}
	return m
}

// resolvedRange materializes the ambient selection into concrete
// bounds. Called per fetch so fixed presets track the wall clock.
func (m dashboardModel) resolvedRange() daterange.DateRange {
	return daterange.Resolve(m.preset, m.customFrom, m.customTo)
}

// initFetchMsg kicks off the first round of fetches. Init cannot
// mutate the model, and starting a fetch advances each tile's request
// generation, so the kickoff runs through Update.
type initFetchMsg struct{}

func (m dashboardModel) Init() tea.Cmd {
	return func() tea.Msg { return initFetchMsg{} }
}

// refetchAll starts a fresh fetch for every tile and arms their poll
// timers.
func (m dashboardModel) refetchAll() (dashboardModel, tea.Cmd) {
	rng := m.resolvedRange()
	cmds := make([]tea.Cmd, 0, len(m.tiles)*2)
	for i := range m.tiles {
		var fetchCmd, tickCmd tea.Cmd
		m.tiles[i], fetchCmd = m.tiles[i].startFetch(rng, false)
		m.tiles[i], tickCmd = m.tiles[i].scheduleTick()
		cmds = append(cmds, fetchCmd, tickCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutTiles()
		if m.view == dashViewDrill {
			var cmd tea.Cmd
			m.drill, cmd = m.drill.Update(msg)
			return m, cmd
		}
		return m, nil

	case initFetchMsg:
		return m.refetchAll()

	case panelTickMsg:
		// Ticks fire for background tiles even while drilled in.
		i, ok := m.byID[msg.panelID]
		if !ok || msg.seq != m.tiles[i].tickSeq {
			return m, nil
		}
		var fetchCmd, tickCmd tea.Cmd
		m.tiles[i], fetchCmd = m.tiles[i].startFetch(m.resolvedRange(), false)
		m.tiles[i], tickCmd = m.tiles[i].scheduleTick()
		return m, tea.Batch(fetchCmd, tickCmd)

	case panelDataMsg:
		if i, ok := m.byID[msg.panelID]; ok {
			m.tiles[i] = m.tiles[i].handleData(msg)
		}
		return m, nil

	case drillDataMsg, drillExportedMsg:
		if m.view == dashViewDrill {
			var cmd tea.Cmd
			m.drill, cmd = m.drill.Update(msg)
			return m, cmd
		}
		// Late result for a dismissed drill-down; drop it.
		return m, nil

	case drillClosedMsg:
		m.view = dashViewGrid
		m.drill = m.drill.close()
		return m, nil

	case tea.KeyMsg:
		if m.view == dashViewDrill {
			var cmd tea.Cmd
			m.drill, cmd = m.drill.Update(msg)
			return m, cmd
		}
		return m.handleGridKey(msg)
	}

	return m, nil
}

func (m dashboardModel) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		for i := range m.tiles {
			m.tiles[i] = m.tiles[i].close()
		}
		return m, tea.Quit

	case "tab", "right", "l":
		if len(m.tiles) > 0 {
			m.focus = (m.focus + 1) % len(m.tiles)
		}
		return m, nil

	case "shift+tab", "left", "h":
		if len(m.tiles) > 0 {
			m.focus = (m.focus - 1 + len(m.tiles)) % len(m.tiles)
		}
		return m, nil

	case "r":
		return m.refetchAll()

	case "1", "2", "3", "4":
		presets := map[string]daterange.Preset{
			"1": daterange.Last1h,
			"2": daterange.Last24h,
			"3": daterange.Last7d,
			"4": daterange.Last30d,
		}
		m.preset = presets[msg.String()]
		// New range supersedes everything in flight.
		return m.refetchAll()

	case "enter", "d":
		if len(m.tiles) == 0 {
			return m, nil
		}
		tile := m.tiles[m.focus]
		var cmd tea.Cmd
		m.drill, cmd = newDrilldown(drilldownOptions{
			fetcher:   m.fetcher,
			tenant:    m.tenant,
			ref:       tile.ref,
			preset:    m.preset,
			from:      m.customFrom,
			to:        m.customTo,
			exportDir: m.exportDir,
			width:     m.width,
			height:    m.height,
		})
		m.view = dashViewDrill
		return m, cmd
	}
	return m, nil
}

// --- Layout ---

// layoutTiles assigns each tile its cell size from the 12-column grid
// positions in the dashboard definition.
func (m *dashboardModel) layoutTiles() {
	if m.width == 0 || len(m.tiles) == 0 {
		return
	}

	rows := m.tileRows()
	contentH := m.height - 4 // header + footer
	rowH := contentH / max(len(rows), 1)
	if rowH < 8 {
		rowH = 8
	}

	for _, row := range rows {
		units := 0
		for _, i := range row {
			w := m.tiles[i].ref.Position.Width
			if w <= 0 {
				w = 12 / len(row)
			}
			units += w
		}
		if units <= 0 {
			units = 12
		}
		for _, i := range row {
			w := m.tiles[i].ref.Position.Width
			if w <= 0 {
				w = 12 / len(row)
			}
			m.tiles[i].width = m.width * w / units
			m.tiles[i].height = rowH
		}
	}
}

// tileRows groups tile indices by grid row, ordered by row then col.
func (m dashboardModel) tileRows() [][]int {
	byRow := make(map[int][]int)
	var rowKeys []int
	for i, t := range m.tiles {
		r := t.ref.Position.Row
		if _, seen := byRow[r]; !seen {
			rowKeys = append(rowKeys, r)
		}
		byRow[r] = append(byRow[r], i)
	}
	sort.Ints(rowKeys)

	rows := make([][]int, 0, len(rowKeys))
	for _, r := range rowKeys {
		row := byRow[r]
		sort.Slice(row, func(a, b int) bool {
			return m.tiles[row[a]].ref.Position.Col < m.tiles[row[b]].ref.Position.Col
		})
		rows = append(rows, row)
	}
	return rows
}

// --- View ---

func (m dashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.view == dashViewDrill {
		return m.drill.View()
	}

	context := m.tenantName
	if context == "" {
		context = m.tenant
	}
	context += " · " + m.preset.Label()

	header := components.Header(m.width, m.dash.Name, context)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "tab", Desc: "focus"},
		{Key: "enter", Desc: "drill down"},
		{Key: "1-4", Desc: "range"},
		{Key: "r", Desc: "refresh"},
		{Key: "q", Desc: "quit"},
	})

	var rowViews []string
	for _, row := range m.tileRows() {
		tiles := make([]string, 0, len(row))
		for _, i := range row {
			tiles = append(tiles, m.tiles[i].View(i == m.focus))
		}
		rowViews = append(rowViews, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rowViews...)
	if len(m.tiles) == 0 {
		content = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("dashboard has no panels"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
