package panel

import (
	"testing"
	"time"
)

func TestRequestParams_OmitsAbsentFields(t *testing.T) {
	v := RequestParams{}.Values("tenant_alpha")

	if got := v.Get("tenant_id"); got != "tenant_alpha" {
		t.Fatalf("tenant_id = %q, want %q", got, "tenant_alpha")
	}
	for _, key := range []string{"date_from", "date_to", "disable_aggregation", "sort_column", "sort_order", "page"} {
		if _, ok := v[key]; ok {
			t.Errorf("key %q present, want omitted", key)
		}
	}
}

func TestRequestParams_ExplicitFalseAndZeroAreSent(t *testing.T) {
	// "Explicitly false" must encode, unlike "not provided".
	off := false
	one := 1
	v := RequestParams{DisableAggregation: &off, Page: &one}.Values("t1")

	if got := v.Get("disable_aggregation"); got != "false" {
		t.Fatalf("disable_aggregation = %q, want %q", got, "false")
	}
	if got := v.Get("page"); got != "1" {
		t.Fatalf("page = %q, want %q", got, "1")
	}
}

func TestRequestParams_DateBoundsRFC3339UTC(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	v := RequestParams{DateFrom: &from, DateTo: &to}.Values("t1")

	if got := v.Get("date_from"); got != "2024-01-01T00:00:00Z" {
		t.Fatalf("date_from = %q", got)
	}
	if got := v.Get("date_to"); got != "2024-01-01T23:00:00Z" {
		t.Fatalf("date_to = %q, want UTC-normalized", got)
	}
}

func TestRequestParams_SortChangeResetsPage(t *testing.T) {
	three := 3
	p := RequestParams{SortColumn: "sev", SortOrder: "asc", Page: &three}

	sorted := p.WithSort("timestamp", "desc")
	if sorted.SortColumn != "timestamp" || sorted.SortOrder != "desc" {
		t.Fatalf("sort not applied: %+v", sorted)
	}
	if sorted.Page == nil || *sorted.Page != 1 {
		t.Fatalf("page = %v, want reset to 1", sorted.Page)
	}

	// Page change alone preserves sort.
	paged := sorted.WithPage(2)
	if paged.SortColumn != "timestamp" || paged.SortOrder != "desc" {
		t.Fatalf("sort lost on page change: %+v", paged)
	}
	if *paged.Page != 2 {
		t.Fatalf("page = %d, want 2", *paged.Page)
	}

	// Original is untouched.
	if *p.Page != 3 || p.SortColumn != "sev" {
		t.Fatalf("original params mutated: %+v", p)
	}
}
