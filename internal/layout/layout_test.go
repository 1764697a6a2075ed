package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"opsdash/internal/gateway"
)

func writeOverride(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func samplePanels() []gateway.PanelRef {
	return []gateway.PanelRef{
		{ID: "error-rate", Title: "Error Rate"},
		{ID: "latency-p95", Title: "Latency p95"},
		{ID: "recent-alerts", Title: "Recent Alerts"},
	}
}

func TestLoad(t *testing.T) {
	path := writeOverride(t, `
dashboard: default
order: [latency-p95, error-rate]
panels:
  - id: recent-alerts
    hide: true
  - id: error-rate
    title: Errors
    refresh_interval: 30
`)
	o, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if o.Dashboard != "default" {
		t.Errorf("dashboard = %q", o.Dashboard)
	}
	if len(o.Panels) != 2 || !o.Panels[0].Hide {
		t.Errorf("panels = %+v", o.Panels)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeOverride(t, "order: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApply_OrderHideAndOverrides(t *testing.T) {
	o := &Override{
		Order: []string{"latency-p95", "error-rate"},
		Panels: []PanelOverride{
			{ID: "recent-alerts", Hide: true},
			{ID: "error-rate", Title: "Errors", RefreshInterval: 30},
		},
	}

	got := o.Apply("default", samplePanels())
	want := []gateway.PanelRef{
		{ID: "latency-p95", Title: "Latency p95"},
		{ID: "error-rate", Title: "Errors", RefreshInterval: 30},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("apply mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_UnlistedPanelsKeepServerOrder(t *testing.T) {
	o := &Override{Order: []string{"recent-alerts"}}

	got := o.Apply("default", samplePanels())
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	want := []string{"recent-alerts", "error-rate", "latency-p95"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_ScopedToOtherDashboard(t *testing.T) {
	o := &Override{
		Dashboard: "capacity",
		Panels:    []PanelOverride{{ID: "error-rate", Hide: true}},
	}

	got := o.Apply("default", samplePanels())
	if len(got) != 3 {
		t.Errorf("override scoped to another dashboard was applied: %d panels", len(got))
	}
}

func TestApply_NilOverride(t *testing.T) {
	var o *Override
	got := o.Apply("default", samplePanels())
	if len(got) != 3 {
		t.Errorf("nil override changed panels: %d", len(got))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	o := &Override{Panels: []PanelOverride{{ID: "error-rate", Title: "Errors"}}}
	in := samplePanels()
	o.Apply("default", in)
	if in[0].Title != "Error Rate" {
		t.Errorf("input mutated: %q", in[0].Title)
	}
}
