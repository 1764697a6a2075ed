package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"opsdash/internal/daterange"
	"opsdash/internal/gateway"
	"opsdash/internal/panel"
)

// fakeFetcher serves canned envelopes; requests are not actually run
// through Bubbletea, the tests drive the tile synchronously.
type fakeFetcher struct {
	env *panel.Envelope
	err error
}

func (f *fakeFetcher) PanelData(_ context.Context, _, _ string, _ panel.RequestParams) (*panel.Envelope, error) {
	return f.env, f.err
}

func kpiEnv(id, value string) *panel.Envelope {
	return &panel.Envelope{
		PanelID:   id,
		PanelType: panel.TypeKPI,
		Data:      json.RawMessage(`{"value": ` + value + `}`),
	}
}

func testRange() daterange.DateRange {
	return daterange.Resolve(daterange.Last24h, nil, nil)
}

func TestPanelTile_SuccessClassifiesOnce(t *testing.T) {
	ref := gateway.PanelRef{ID: "error-rate", Type: panel.TypeKPI}
	tile := newPanelTile(ref, &fakeFetcher{}, "acme-prod", 60)

	tile, _ = tile.startFetch(testRange(), false)
	tile = tile.handleData(panelDataMsg{
		panelID: "error-rate",
		gen:     tile.ctrl.Generation(),
		env:     kpiEnv("error-rate", "42"),
	})

	kpi, ok := tile.payload.(*panel.KPIPayload)
	if !ok {
		t.Fatalf("payload = %T, want KPI", tile.payload)
	}
	if kpi.Value != 42 || kpi.Decimals != 1 {
		t.Errorf("kpi = %+v", kpi)
	}
	if tile.classifyErr != nil {
		t.Errorf("unexpected classify error: %v", tile.classifyErr)
	}
}

func TestPanelTile_StaleResultDiscarded(t *testing.T) {
	ref := gateway.PanelRef{ID: "error-rate", Type: panel.TypeKPI}
	tile := newPanelTile(ref, &fakeFetcher{}, "acme-prod", 60)

	tile, _ = tile.startFetch(testRange(), false)
	oldGen := tile.ctrl.Generation()
	tile, _ = tile.startFetch(testRange(), false)
	newGen := tile.ctrl.Generation()

	tile = tile.handleData(panelDataMsg{panelID: "error-rate", gen: newGen, env: kpiEnv("error-rate", "2")})
	tile = tile.handleData(panelDataMsg{panelID: "error-rate", gen: oldGen, env: kpiEnv("error-rate", "1")})

	kpi := tile.payload.(*panel.KPIPayload)
	if kpi.Value != 2 {
		t.Errorf("stale result overwrote newer data: value = %v", kpi.Value)
	}
}

func TestPanelTile_TypeMismatchKeepsPreviousPayload(t *testing.T) {
	ref := gateway.PanelRef{ID: "error-rate", Type: panel.TypeKPI}
	tile := newPanelTile(ref, &fakeFetcher{}, "acme-prod", 60)

	tile, _ = tile.startFetch(testRange(), false)
	tile = tile.handleData(panelDataMsg{panelID: "error-rate", gen: tile.ctrl.Generation(), env: kpiEnv("error-rate", "42")})

	// The next poll returns a table envelope for a KPI slot.
	tile, _ = tile.startFetch(testRange(), false)
	bad := &panel.Envelope{
		PanelID:   "error-rate",
		PanelType: panel.TypeTable,
		Data:      json.RawMessage(`{"columns": [], "rows": []}`),
	}
	tile = tile.handleData(panelDataMsg{panelID: "error-rate", gen: tile.ctrl.Generation(), env: bad})

	if !errors.Is(tile.classifyErr, panel.ErrTypeMismatch) {
		t.Errorf("classifyErr = %v, want type mismatch", tile.classifyErr)
	}
	if tile.payload == nil {
		t.Error("previous payload was dropped on classification failure")
	}
}

func TestPanelTile_FetchErrorRetainsPayload(t *testing.T) {
	ref := gateway.PanelRef{ID: "error-rate", Type: panel.TypeKPI}
	tile := newPanelTile(ref, &fakeFetcher{}, "acme-prod", 60)

	tile, _ = tile.startFetch(testRange(), false)
	tile = tile.handleData(panelDataMsg{panelID: "error-rate", gen: tile.ctrl.Generation(), env: kpiEnv("error-rate", "42")})

	tile, _ = tile.startFetch(testRange(), false)
	tile = tile.handleData(panelDataMsg{panelID: "error-rate", gen: tile.ctrl.Generation(), err: errors.New("HTTP 502")})

	if tile.payload == nil {
		t.Error("payload blanked by failed refetch")
	}
	if tile.ctrl.Err() == nil {
		t.Error("refetch error not surfaced")
	}
}

func TestPanelTile_IntervalFallsBackToDashboardDefault(t *testing.T) {
	tile := newPanelTile(gateway.PanelRef{ID: "a"}, &fakeFetcher{}, "acme", 45)
	if tile.ctrl.Interval() != 45*time.Second {
		t.Errorf("interval = %v, want 45s", tile.ctrl.Interval())
	}

	tile = newPanelTile(gateway.PanelRef{ID: "b", RefreshInterval: 10}, &fakeFetcher{}, "acme", 45)
	if tile.ctrl.Interval() != 10*time.Second {
		t.Errorf("interval = %v, want 10s", tile.ctrl.Interval())
	}
}
