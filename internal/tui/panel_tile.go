package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opsdash/internal/daterange"
	"opsdash/internal/gateway"
	"opsdash/internal/panel"
	"opsdash/internal/refresh"
	"opsdash/internal/tui/styles"
)

// fetchTimeout bounds a single panel data request.
const fetchTimeout = 30 * time.Second

// PanelFetcher is the slice of the gateway client the TUI needs.
// Narrowed to an interface so tests can substitute a fake backend.
type PanelFetcher interface {
	PanelData(ctx context.Context, tenantID, panelID string, params panel.RequestParams) (*panel.Envelope, error)
}

// --- Messages ---

// panelDataMsg delivers one fetch result. Carries the panel ID and the
// request generation so results route to the right tile and stale
// responses get dropped there.
type panelDataMsg struct {
	panelID string
	gen     uint64
	env     *panel.Envelope
	err     error
}

// panelTickMsg fires when a panel's poll interval elapses. seq is
// matched against the tile's current timer so a manual refresh or
// range change, which re-arms the timer, invalidates ticks already in
// flight instead of stacking cadences.
type panelTickMsg struct {
	panelID string
	seq     uint64
}

// --- Tile model ---

// panelTile is one dashboard grid cell: a panel reference, its refresh
// state machine, and the classified payload from the last good fetch.
type panelTile struct {
	ref     gateway.PanelRef
	fetcher PanelFetcher
	tenant  string

	ctrl        refresh.Controller
	payload     panel.Payload
	classifyErr error
	tickSeq     uint64

	width  int
	height int
}

func newPanelTile(ref gateway.PanelRef, fetcher PanelFetcher, tenant string, defaultIntervalSec int) panelTile {
	sec := ref.RefreshInterval
	if sec <= 0 {
		sec = defaultIntervalSec
	}
	return panelTile{
		ref:     ref,
		fetcher: fetcher,
		tenant:  tenant,
		ctrl:    refresh.New(time.Duration(sec) * time.Second),
	}
}

// startFetch begins a request for the given concrete range and returns
// the fetch command. The previous payload stays on screen while it
// runs.
func (t panelTile) startFetch(rng daterange.DateRange, disableAggregation bool) (panelTile, tea.Cmd) {
	var gen uint64
	t.ctrl, gen = t.ctrl.Begin()

	params := panel.RequestParams{DateFrom: rng.From, DateTo: rng.To}
	if disableAggregation {
		v := true
		params.DisableAggregation = &v
	}

	fetcher, tenant, id := t.fetcher, t.tenant, t.ref.ID
	return t, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		env, err := fetcher.PanelData(ctx, tenant, id, params)
		return panelDataMsg{panelID: id, gen: gen, env: env, err: err}
	}
}

// scheduleTick arms the next poll for this tile, superseding any
// previously armed timer.
func (t panelTile) scheduleTick() (panelTile, tea.Cmd) {
	t.tickSeq++
	id, seq := t.ref.ID, t.tickSeq
	return t, tea.Tick(t.ctrl.Interval(), func(time.Time) tea.Msg {
		return panelTickMsg{panelID: id, seq: seq}
	})
}

// handleData applies a fetch result. Successful envelopes are
// classified once here so View never re-parses JSON; a payload that
// fails classification surfaces as a per-tile error while the previous
// good payload stays visible.
func (t panelTile) handleData(msg panelDataMsg) panelTile {
	var applied bool
	t.ctrl, applied = t.ctrl.Apply(msg.gen, msg.env, msg.err)
	if !applied || msg.err != nil {
		return t
	}

	p, err := classifyFor(t.ref.Type, msg.env)
	if err != nil {
		t.classifyErr = err
		return t
	}
	t.payload = p
	t.classifyErr = nil
	return t
}

// classifyFor validates the envelope against the declared panel type
// when the dashboard definition carries one, otherwise trusts the
// envelope's own type declaration.
func classifyFor(want panel.Type, env *panel.Envelope) (panel.Payload, error) {
	if want != "" && want.Known() {
		return panel.ClassifyAs(env, want)
	}
	return panel.Classify(env)
}

func (t panelTile) close() panelTile {
	t.ctrl = t.ctrl.Close()
	return t
}

// --- View ---

func (t panelTile) View(focused bool) string {
	card := styles.Card
	if focused {
		card = styles.CardActive
	}

	// Interior space after the card's border and padding.
	innerW := t.width - 6
	innerH := t.height - 4
	if innerW < 10 {
		innerW = 10
	}
	if innerH < 3 {
		innerH = 3
	}

	title := styles.Label.Render(truncate(t.ref.DisplayTitle(), innerW))
	body := t.renderBody(innerW, innerH-2)
	status := t.renderStatus(innerW)

	content := joinNonEmpty(title, body, status)
	return card.Width(t.width - 2).Height(t.height - 2).Render(content)
}

func (t panelTile) renderBody(width, height int) string {
	// A fetch error with nothing cached yet is a full-tile error; with
	// cached data the stale payload stays up and the status line warns.
	if t.ctrl.Err() != nil && !t.ctrl.HasData() {
		return renderPanelError(t.ctrl.Err(), width)
	}
	if t.classifyErr != nil && t.payload == nil {
		return renderPanelError(t.classifyErr, width)
	}
	if t.payload == nil {
		return styles.MutedText.Render("loading…")
	}

	var info *panel.AggregationInfo
	if env := t.ctrl.Envelope(); env != nil {
		info = env.AggregationInfo
	}

	switch p := t.payload.(type) {
	case *panel.TimeSeriesPayload:
		return renderTimeSeries(p, info, width, height)
	case *panel.KPIPayload:
		return renderKPI(p, width, height)
	case *panel.HealthStatusPayload:
		return renderHealth(p, width, height)
	case *panel.TablePayload:
		tbl := buildTable(p, width, height-1, false)
		return lipgloss.JoinVertical(lipgloss.Left, tbl.View(), tableFooter(p))
	}
	return renderPanelError(panel.ErrUnknownPanelType, width)
}

func (t panelTile) renderStatus(width int) string {
	parts := lastUpdatedLabel(t.ctrl.LastUpdated(), time.Now())
	if t.ctrl.InFlight() {
		if parts != "" {
			parts += " · "
		}
		parts += "refreshing…"
	}
	if err := t.ctrl.Err(); err != nil && t.ctrl.HasData() {
		if parts != "" {
			parts += " · "
		}
		parts += "refresh failed"
	} else if t.classifyErr != nil && t.payload != nil {
		if parts != "" {
			parts += " · "
		}
		parts += panelErrorText(t.classifyErr)
	}
	if parts == "" {
		return ""
	}
	return styles.MutedText.Render(truncate(parts, width))
}
