package panel

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envelope(t *testing.T, panelType Type, data string) *Envelope {
	t.Helper()
	return &Envelope{
		PanelID:   "test-panel",
		PanelType: panelType,
		Data:      json.RawMessage(data),
	}
}

func TestClassify_MinimalValidPayloads(t *testing.T) {
	tests := []struct {
		name      string
		panelType Type
		data      string
		wantKind  Type
	}{
		{
			name:      "timeseries",
			panelType: TypeTimeSeries,
			data:      `{"series":[]}`,
			wantKind:  TypeTimeSeries,
		},
		{
			name:      "kpi",
			panelType: TypeKPI,
			data:      `{"value":42}`,
			wantKind:  TypeKPI,
		},
		{
			name:      "health_status",
			panelType: TypeHealthStatus,
			data:      `{"services":[]}`,
			wantKind:  TypeHealthStatus,
		},
		{
			name:      "table",
			panelType: TypeTable,
			data:      `{"columns":[],"rows":[]}`,
			wantKind:  TypeTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(envelope(t, tt.panelType, tt.data))
			if err != nil {
				t.Fatalf("Classify error: %v", err)
			}
			if got.Kind() != tt.wantKind {
				t.Fatalf("got kind %q, want %q", got.Kind(), tt.wantKind)
			}
		})
	}
}

func TestClassify_StructurallyInvalid(t *testing.T) {
	tests := []struct {
		name      string
		panelType Type
		data      string
	}{
		{"timeseries missing series", TypeTimeSeries, `{"points":[]}`},
		{"timeseries series not array", TypeTimeSeries, `{"series":{}}`},
		{"kpi missing value", TypeKPI, `{"unit":"%"}`},
		{"kpi value not number", TypeKPI, `{"value":"42"}`},
		{"kpi value null", TypeKPI, `{"value":null}`},
		{"health services not array", TypeHealthStatus, `{"services":"up"}`},
		{"table missing rows", TypeTable, `{"columns":[]}`},
		{"table rows not array", TypeTable, `{"columns":[],"rows":{}}`},
		{"not an object", TypeTimeSeries, `[1,2,3]`},
		{"empty data", TypeKPI, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(envelope(t, tt.panelType, tt.data))
			if !errors.Is(err, ErrInvalidPayload) {
				t.Fatalf("got %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestClassify_UnknownType(t *testing.T) {
	_, err := Classify(envelope(t, Type("custom_image"), `{"endpoint":"/img"}`))
	if !errors.Is(err, ErrUnknownPanelType) {
		t.Fatalf("got %v, want ErrUnknownPanelType", err)
	}
}

func TestClassifyAs_TypeMismatch(t *testing.T) {
	// A well-formed KPI envelope arriving at a table renderer must be a
	// mismatch, never a silent pass-through and never "invalid".
	env := envelope(t, TypeKPI, `{"value":42}`)

	_, err := ClassifyAs(env, TypeTable)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v, want ErrTypeMismatch", err)
	}
	if errors.Is(err, ErrInvalidPayload) {
		t.Fatal("mismatch must not also report ErrInvalidPayload")
	}

	// Matching expectation classifies normally.
	got, err := ClassifyAs(env, TypeKPI)
	if err != nil {
		t.Fatalf("ClassifyAs error: %v", err)
	}
	if got.Kind() != TypeKPI {
		t.Fatalf("got kind %q, want %q", got.Kind(), TypeKPI)
	}
}

func TestClassify_ForwardCompatibleWithExtraFields(t *testing.T) {
	// Additive backend evolution: unknown fields pass through untouched.
	data := `{
		"series":[{"timestamps":["2024-01-01T00:00:00Z"],"values":[45.2],"label":"server-1","future_field":true}],
		"query_executed":"SELECT ...",
		"new_top_level": {"x": 1}
	}`
	got, err := Classify(envelope(t, TypeTimeSeries, data))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}

	want := &TimeSeriesPayload{Series: []Series{{
		Timestamps: []string{"2024-01-01T00:00:00Z"},
		Values:     []float64{45.2},
		Label:      "server-1",
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_KPIDecimalsDefault(t *testing.T) {
	got, err := Classify(envelope(t, TypeKPI, `{"value":42}`))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	kpi := got.(*KPIPayload)
	if kpi.Decimals != 1 {
		t.Fatalf("got decimals %d, want default 1", kpi.Decimals)
	}

	got, err = Classify(envelope(t, TypeKPI, `{"value":42,"decimals":3}`))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if kpi := got.(*KPIPayload); kpi.Decimals != 3 {
		t.Fatalf("got decimals %d, want 3", kpi.Decimals)
	}
}

func TestClassify_UnequalSeriesLengthsPass(t *testing.T) {
	// Length parity is deliberately not validated; Points() clamps.
	data := `{"series":[{"timestamps":["a","b","c"],"values":[1.0],"label":"s"}]}`
	got, err := Classify(envelope(t, TypeTimeSeries, data))
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	ts := got.(*TimeSeriesPayload)
	if n := ts.Series[0].Points(); n != 1 {
		t.Fatalf("got %d renderable points, want 1", n)
	}
}
