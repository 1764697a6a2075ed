package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opsdash/internal/daterange"
	"opsdash/internal/export"
	"opsdash/internal/gateway"
	"opsdash/internal/panel"
	"opsdash/internal/refresh"
	"opsdash/internal/tui/components"
	"opsdash/internal/tui/styles"
)

// --- Messages ---

type drillDataMsg struct {
	gen uint64
	env *panel.Envelope
	err error
}

type drillExportedMsg struct {
	path string
	err  error
}

// drillClosedMsg asks the app to dismiss the drill-down.
type drillClosedMsg struct{}

// --- Model ---

// drilldownModel is the focused single-panel view. It fetches
// independently of the grid tile with its own request generations, so
// its local controls (aggregation toggle, sorting, paging) never
// disturb the background dashboard.
type drilldownModel struct {
	fetcher   PanelFetcher
	tenant    string
	ref       gateway.PanelRef
	exportDir string

	// Inherited ambient range. Local to the session: a drill-down
	// always opens with aggregation enabled and the raw table hidden.
	preset daterange.Preset
	from   *time.Time
	to     *time.Time

	disableAgg bool
	showTable  bool

	// Server-side sort and pagination state for table panels.
	sort *panel.Sort
	page int

	ctrl        refresh.Controller
	payload     panel.Payload
	classifyErr error

	tbl      table.Model
	hasTable bool
	colIdx   int

	status        string
	statusIsError bool

	width  int
	height int
}

type drilldownOptions struct {
	fetcher   PanelFetcher
	tenant    string
	ref       gateway.PanelRef
	preset    daterange.Preset
	from      *time.Time
	to        *time.Time
	exportDir string
	width     int
	height    int
}

func newDrilldown(opts drilldownOptions) (drilldownModel, tea.Cmd) {
	m := drilldownModel{
		fetcher:   opts.fetcher,
		tenant:    opts.tenant,
		ref:       opts.ref,
		exportDir: opts.exportDir,
		preset:    opts.preset,
		from:      opts.from,
		to:        opts.to,
		page:      1,
		ctrl:      refresh.New(refresh.DefaultInterval),
		width:     opts.width,
		height:    opts.height,
	}
	return m.startFetch()
}

func (m drilldownModel) close() drilldownModel {
	m.ctrl = m.ctrl.Close()
	return m
}

// params assembles the request from the ambient range and the local
// drill-down state.
func (m drilldownModel) requestParams() panel.RequestParams {
	rng := daterange.Resolve(m.preset, m.from, m.to)
	p := panel.RequestParams{DateFrom: rng.From, DateTo: rng.To}
	if m.disableAgg {
		v := true
		p.DisableAggregation = &v
	}
	if m.sort != nil {
		p.SortColumn = m.sort.Column
		p.SortOrder = m.sort.Order
	}
	if m.page > 1 {
		pg := m.page
		p.Page = &pg
	}
	return p
}

func (m drilldownModel) startFetch() (drilldownModel, tea.Cmd) {
	var gen uint64
	m.ctrl, gen = m.ctrl.Begin()

	fetcher, tenant, id := m.fetcher, m.tenant, m.ref.ID
	params := m.requestParams()
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		env, err := fetcher.PanelData(ctx, tenant, id, params)
		return drillDataMsg{gen: gen, env: env, err: err}
	}
}

// --- Update ---

func (m drilldownModel) Update(msg tea.Msg) (drilldownModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildTable()
		return m, nil

	case drillDataMsg:
		return m.handleData(msg), nil

	case drillExportedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("export failed: %v", msg.err)
			m.statusIsError = true
		} else {
			m.status = "exported to " + msg.path
			m.statusIsError = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m drilldownModel) handleData(msg drillDataMsg) drilldownModel {
	var applied bool
	m.ctrl, applied = m.ctrl.Apply(msg.gen, msg.env, msg.err)
	if !applied || msg.err != nil {
		return m
	}

	p, err := classifyFor(m.ref.Type, msg.env)
	if err != nil {
		m.classifyErr = err
		return m
	}
	m.payload = p
	m.classifyErr = nil

	// The server is authoritative: its echoed sort and page replace
	// whatever was requested.
	if tp, ok := p.(*panel.TablePayload); ok {
		m.sort = tp.Sort
		if tp.Pagination != nil {
			m.page = tp.Pagination.CurrentPage
		}
	}
	m.rebuildTable()
	return m
}

func (m *drilldownModel) rebuildTable() {
	tp, ok := m.payload.(*panel.TablePayload)
	if !ok {
		m.hasTable = false
		return
	}
	if m.colIdx >= len(tp.Columns) {
		m.colIdx = 0
	}
	m.tbl = buildTable(tp, m.width-4, m.height-10, true)
	m.hasTable = true
}

func (m drilldownModel) handleKey(msg tea.KeyMsg) (drilldownModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return drillClosedMsg{} }

	case "ctrl+c":
		return m, tea.Quit

	case "r":
		return m.startFetch()

	case "a":
		m.disableAgg = !m.disableAgg
		return m.startFetch()

	case "t":
		if _, ok := m.payload.(*panel.TimeSeriesPayload); ok {
			m.showTable = !m.showTable
		}
		return m, nil

	case "e":
		return m, m.exportCmd(export.FormatCSV)

	case "j":
		return m, m.exportCmd(export.FormatJSON)
	}

	if tp, ok := m.payload.(*panel.TablePayload); ok {
		switch msg.String() {
		case "left", "h":
			if m.colIdx > 0 {
				m.colIdx--
			}
			return m, nil
		case "right", "l":
			if m.colIdx < len(tp.Columns)-1 {
				m.colIdx++
			}
			return m, nil
		case "s":
			if len(tp.Columns) == 0 {
				return m, nil
			}
			// Changing the sort resets to the first page.
			m.sort = nextSort(m.sort, tp.Columns[m.colIdx].Name)
			m.page = 1
			return m.startFetch()
		case "n":
			if pg := tp.Pagination; pg != nil && m.page < pg.TotalPages {
				m.page++
				return m.startFetch()
			}
			return m, nil
		case "p":
			if m.page > 1 {
				m.page--
				return m.startFetch()
			}
			return m, nil
		}
		// Remaining keys scroll the table.
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}

	return m, nil
}

// exportCmd writes the current payload to the export directory.
func (m drilldownModel) exportCmd(f export.Format) tea.Cmd {
	if m.payload == nil {
		return func() tea.Msg {
			return drillExportedMsg{err: fmt.Errorf("no data to export")}
		}
	}
	payload, dir, id := m.payload, m.exportDir, m.ref.ID
	return func() tea.Msg {
		data, err := export.Marshal(payload, f)
		if err != nil {
			return drillExportedMsg{err: err}
		}
		name := fmt.Sprintf("%s_%s.%s", id, time.Now().Format("20060102-150405"), f.Extension())
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return drillExportedMsg{err: err}
		}
		return drillExportedMsg{path: path}
	}
}

// --- View ---

func (m drilldownModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	rng := daterange.Resolve(m.preset, m.from, m.to)
	context := m.tenant + " · " + m.preset.Label()
	if rng.Complete() {
		bucket := daterange.PredictBucket(*rng.From, *rng.To, m.disableAgg)
		context += " · bucket: " + string(bucket)
	}

	header := components.Header(m.width, m.ref.DisplayTitle(), context)
	footer := components.Footer(m.width, m.footerKeys())
	status := components.StatusBar(m.width, m.status, m.statusIsError)

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := 0
	if status != "" {
		statusH = lipgloss.Height(status)
	}
	contentH := m.height - headerH - footerH - statusH
	if contentH < 3 {
		contentH = 3
	}

	body := m.renderBody(m.width-4, contentH-1)
	content := lipgloss.NewStyle().Padding(0, 2).Render(body)

	parts := []string{header, content}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m drilldownModel) footerKeys() []components.KeyBinding {
	keys := []components.KeyBinding{
		{Key: "esc", Desc: "back"},
		{Key: "a", Desc: "toggle aggregation"},
		{Key: "e", Desc: "export csv"},
		{Key: "j", Desc: "export json"},
		{Key: "r", Desc: "refresh"},
	}
	switch m.payload.(type) {
	case *panel.TimeSeriesPayload:
		keys = append(keys, components.KeyBinding{Key: "t", Desc: "raw table"})
	case *panel.TablePayload:
		keys = append(keys,
			components.KeyBinding{Key: "←/→", Desc: "column"},
			components.KeyBinding{Key: "s", Desc: "sort"},
			components.KeyBinding{Key: "n/p", Desc: "page"},
		)
	}
	return keys
}

func (m drilldownModel) renderBody(width, height int) string {
	if m.ctrl.Err() != nil && !m.ctrl.HasData() {
		return renderPanelError(m.ctrl.Err(), width)
	}
	if m.classifyErr != nil && m.payload == nil {
		return renderPanelError(m.classifyErr, width)
	}
	if m.payload == nil {
		return styles.MutedText.Render("loading…")
	}

	var info *panel.AggregationInfo
	if env := m.ctrl.Envelope(); env != nil {
		info = env.AggregationInfo
	}

	var body string
	switch p := m.payload.(type) {
	case *panel.TimeSeriesPayload:
		chartH := height
		if m.showTable {
			chartH = height / 2
		}
		body = renderTimeSeries(p, info, width, chartH)
		if m.showTable {
			body = lipgloss.JoinVertical(lipgloss.Left, body, renderRawPoints(p, width, height-chartH-1))
		}
	case *panel.KPIPayload:
		body = renderKPI(p, width, height)
	case *panel.HealthStatusPayload:
		body = renderHealth(p, width, height)
	case *panel.TablePayload:
		selected := ""
		if len(p.Columns) > 0 {
			col := p.Columns[min(m.colIdx, len(p.Columns)-1)]
			selected = styles.MutedText.Render("column: " + displayName(p, col.Name))
		}
		body = joinNonEmpty(m.tbl.View(), tableFooter(p), selected)
	default:
		body = renderPanelError(panel.ErrUnknownPanelType, width)
	}

	if st := m.refreshStatus(width); st != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, st)
	}
	return body
}

func (m drilldownModel) refreshStatus(width int) string {
	parts := lastUpdatedLabel(m.ctrl.LastUpdated(), time.Now())
	if m.ctrl.InFlight() {
		if parts != "" {
			parts += " · "
		}
		parts += "refreshing…"
	}
	if err := m.ctrl.Err(); err != nil && m.ctrl.HasData() {
		if parts != "" {
			parts += " · "
		}
		parts += panelErrorText(err)
	}
	if parts == "" {
		return ""
	}
	return styles.MutedText.Render(truncate(parts, width))
}

// renderRawPoints shows the drill-down's raw data table for a time
// series: one line per point, newest last, clipped to the available
// height.
func renderRawPoints(p *panel.TimeSeriesPayload, width, height int) string {
	if height < 2 {
		height = 2
	}
	lines := []string{styles.TableHeader.Render(fmt.Sprintf("%-25s %15s  %s", "timestamp", "value", "series"))}
	for _, s := range p.Series {
		label := s.Label
		if label == "" {
			label = "series"
		}
		for j := 0; j < s.Points(); j++ {
			lines = append(lines, truncate(fmt.Sprintf("%-25s %15.4f  %s", s.Timestamps[j], s.Values[j], label), width))
		}
	}
	if len(lines) > height {
		hidden := len(lines) - height
		lines = append(lines[:height-1], styles.MutedText.Render(fmt.Sprintf("… %d more rows", hidden+1)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
