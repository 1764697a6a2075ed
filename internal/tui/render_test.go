package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"opsdash/internal/gateway"
	"opsdash/internal/panel"
)

func TestFormatKPIValue(t *testing.T) {
	cases := []struct {
		name string
		p    panel.KPIPayload
		want string
	}{
		{"default decimals", panel.KPIPayload{Value: 42, Decimals: 1}, "42.0"},
		{"three decimals", panel.KPIPayload{Value: 0.12345, Decimals: 3}, "0.123"},
		{"zero decimals", panel.KPIPayload{Value: 97.6, Decimals: 0}, "98"},
		{"with unit", panel.KPIPayload{Value: 99.95, Decimals: 2, Unit: "%"}, "99.95 %"},
	}
	for _, tc := range cases {
		if got := formatKPIValue(&tc.p); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		name   string
		v      any
		format string
		want   string
	}{
		{"null renders empty", nil, "", ""},
		{"null with format", nil, "datetime", ""},
		{"plain string", "api-gateway", "", "api-gateway"},
		{"number no exponent", float64(1234567), "number", "1234567"},
		{"percent", float64(12.5), "percent", "12.5%"},
		{"bool", true, "", "true"},
		{"unparseable datetime passes through", "not-a-date", "datetime", "not-a-date"},
	}
	for _, tc := range cases {
		if got := formatCell(tc.v, tc.format); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatCell_Datetime(t *testing.T) {
	got := formatCell("2024-01-02T15:04:05Z", "datetime")
	// Rendered in local time; only the shape is asserted.
	if len(got) != len("2024-01-02 15:04:05") {
		t.Errorf("datetime cell = %q, want yyyy-mm-dd hh:mm:ss shape", got)
	}
}

func TestAggregationNote(t *testing.T) {
	if got := aggregationNote(nil); got != "" {
		t.Errorf("nil info: got %q", got)
	}
	if got := aggregationNote(&panel.AggregationInfo{Applied: false}); got != "" {
		t.Errorf("not applied: got %q", got)
	}
	got := aggregationNote(&panel.AggregationInfo{
		Applied:        true,
		BucketInterval: "10 minutes",
		Reason:         "range exceeds 1 day",
	})
	want := "aggregated to 10 minutes buckets (range exceeds 1 day)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPanelErrorText(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"type mismatch", fmt.Errorf("wrap: %w", panel.ErrTypeMismatch), "no data available for this panel"},
		{"invalid payload", fmt.Errorf("wrap: %w", panel.ErrInvalidPayload), "invalid data format"},
		{"unauthorized", fmt.Errorf("%w (HTTP 401)", gateway.ErrUnauthorized), "session expired, run: opsdash auth login"},
		{"network", fmt.Errorf("%w: dial tcp", gateway.ErrNetwork), "backend unreachable"},
		{"forbidden detail", &gateway.StatusError{Code: 403, Status: "403 Forbidden", Detail: "no access to tenant acme-prod"}, "no access to tenant acme-prod"},
	}
	for _, tc := range cases {
		if got := panelErrorText(tc.err); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNextSort_Cycle(t *testing.T) {
	s := nextSort(nil, "count")
	if s == nil || s.Order != "asc" {
		t.Fatalf("first press: %+v, want asc", s)
	}
	s = nextSort(s, "count")
	if s == nil || s.Order != "desc" {
		t.Fatalf("second press: %+v, want desc", s)
	}
	s = nextSort(s, "count")
	if s != nil {
		t.Fatalf("third press: %+v, want unsorted", s)
	}
}

func TestNextSort_DifferentColumnStartsAscending(t *testing.T) {
	s := &panel.Sort{Column: "count", Order: "desc"}
	got := nextSort(s, "severity")
	if got == nil || got.Column != "severity" || got.Order != "asc" {
		t.Errorf("switching columns: %+v, want severity asc", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestClassifyFor_MismatchKeepsSentinel(t *testing.T) {
	env := &panel.Envelope{
		PanelID:   "error-rate",
		PanelType: panel.TypeKPI,
		Data:      json.RawMessage(`{"value": 1}`),
	}
	_, err := classifyFor(panel.TypeTable, env)
	if !errors.Is(err, panel.ErrTypeMismatch) {
		t.Errorf("expected type mismatch, got %v", err)
	}
}

func TestRenderHealth_ShowsLastCheck(t *testing.T) {
	p := &panel.HealthStatusPayload{
		Services: []panel.ServiceStatus{
			{ServiceName: "ingest", StatusLabel: "Healthy", LastCheck: "2024-01-01T12:30:00Z"},
			{ServiceName: "worker", StatusLabel: "Degraded"},
		},
	}
	out := renderHealth(p, 80, 10)
	if !strings.Contains(out, "checked ") {
		t.Errorf("last check time missing from health view:\n%s", out)
	}
	if strings.Count(out, "checked ") != 1 {
		t.Errorf("services without last_check must not show a check time:\n%s", out)
	}
}

func TestLastCheckLabel(t *testing.T) {
	if got := lastCheckLabel(""); got != "" {
		t.Errorf("empty last_check rendered %q", got)
	}
	// Unparseable timestamps pass through as sent.
	if got := lastCheckLabel("a minute ago"); got != "checked a minute ago" {
		t.Errorf("got %q", got)
	}
	if got := lastCheckLabel("2024-01-01T12:30:00Z"); !strings.HasPrefix(got, "checked ") {
		t.Errorf("got %q", got)
	}
}

func TestTableFooter(t *testing.T) {
	p := &panel.TablePayload{
		Columns: []panel.Column{{Name: "count", Display: "Count"}},
		Pagination: &panel.Pagination{
			CurrentPage: 2, PageSize: 50, TotalRows: 123, TotalPages: 3,
		},
		Sort: &panel.Sort{Column: "count", Order: "desc"},
	}
	got := tableFooter(p)
	for _, want := range []string{"page 2/3", "123 rows", "Count desc"} {
		if !strings.Contains(got, want) {
			t.Errorf("footer %q missing %q", got, want)
		}
	}
}
