package daterange

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }}
}

func TestResolve_PresetDurations(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	clock := fixedClock(now)

	tests := []struct {
		preset Preset
		want   time.Duration
	}{
		{Last1h, time.Hour},
		{Last24h, 24 * time.Hour},
		{Last7d, 168 * time.Hour},
		{Last30d, 720 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			r := clock.Resolve(tt.preset, nil, nil)
			if !r.Complete() {
				t.Fatal("preset range must have both bounds")
			}
			if got := r.To.Sub(*r.From); got != tt.want {
				t.Fatalf("width = %v, want %v", got, tt.want)
			}
			if !r.To.Equal(now) {
				t.Fatalf("to = %v, want now (%v)", r.To, now)
			}
		})
	}
}

func TestResolve_Last24hScenario(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	r := fixedClock(now).Resolve(Last24h, nil, nil)

	wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !r.From.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", r.From, wantFrom)
	}
	if !r.To.Equal(now) {
		t.Fatalf("to = %v, want %v", r.To, now)
	}
}

func TestResolve_PresetNotCached(t *testing.T) {
	// Repeated reads with the same preset over time must yield
	// different absolute bounds.
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := Clock{Now: func() time.Time { return current }}

	first := clock.Resolve(Last1h, nil, nil)
	current = current.Add(10 * time.Minute)
	second := clock.Resolve(Last1h, nil, nil)

	if first.To.Equal(*second.To) {
		t.Fatal("bounds were cached across resolutions")
	}
	if got := second.To.Sub(*first.To); got != 10*time.Minute {
		t.Fatalf("second resolution drifted by %v, want 10m", got)
	}
}

func TestResolve_CustomIdempotent(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	first := Resolve(Custom, &from, &to)
	second := Resolve(Custom, &from, &to)

	if !first.From.Equal(*second.From) || !first.To.Equal(*second.To) {
		t.Fatal("custom resolution is not idempotent")
	}
	if !first.From.Equal(from) || !first.To.Equal(to) {
		t.Fatal("custom bounds must be returned verbatim")
	}
}

func TestResolve_CustomIncompleteBounds(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r := Resolve(Custom, &from, nil)
	if r.Complete() {
		t.Fatal("half-open custom range must not report complete")
	}
	if r.From == nil || !r.From.Equal(from) {
		t.Fatalf("from = %v, want %v", r.From, from)
	}
}

func TestResolve_UnknownPresetFallsBackToCustom(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	r := Resolve(Preset("last_90d"), &from, &to)
	if r.Preset != Custom {
		t.Fatalf("preset = %q, want custom fallback", r.Preset)
	}
	if !r.From.Equal(from) || !r.To.Equal(to) {
		t.Fatal("held bounds must be preserved on fallback")
	}
}
