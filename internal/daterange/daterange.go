// Package daterange models the dashboard's time window: four fixed
// presets plus a custom range. Preset bounds are derived from the wall
// clock on every resolution, never cached, so two resolutions of the
// same preset at different times yield different absolute bounds.
package daterange

import "time"

// Preset identifies a relative time window.
type Preset string

const (
	Last1h  Preset = "last_1h"
	Last24h Preset = "last_24h"
	Last7d  Preset = "last_7d"
	Last30d Preset = "last_30d"
	Custom  Preset = "custom"
)

// presetDurations maps each fixed preset to its lookback window.
var presetDurations = map[Preset]time.Duration{
	Last1h:  1 * time.Hour,
	Last24h: 24 * time.Hour,
	Last7d:  168 * time.Hour,
	Last30d: 720 * time.Hour,
}

// Presets lists the fixed presets in display order.
func Presets() []Preset {
	return []Preset{Last1h, Last24h, Last7d, Last30d}
}

// Duration returns the lookback window for a fixed preset, or zero for
// custom/unknown presets.
func (p Preset) Duration() time.Duration {
	return presetDurations[p]
}

// Label returns a short human-readable name for the preset.
func (p Preset) Label() string {
	switch p {
	case Last1h:
		return "1h"
	case Last24h:
		return "24h"
	case Last7d:
		return "7d"
	case Last30d:
		return "30d"
	case Custom:
		return "custom"
	}
	return string(p)
}

// DateRange holds resolved bounds. For custom ranges either bound may
// be nil until the user supplies it; callers must not issue network
// requests until both are set. No from <= to ordering is enforced here.
type DateRange struct {
	From   *time.Time
	To     *time.Time
	Preset Preset
}

// Complete reports whether both bounds are usable.
func (r DateRange) Complete() bool {
	return r.From != nil && r.To != nil
}

// Clock supplies the current time. The zero value uses the wall clock;
// tests substitute a fixed instant.
type Clock struct {
	Now func() time.Time
}

func (c Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Resolve computes the absolute bounds for a preset. Fixed presets
// anchor to = now and from = to - duration. Custom returns the given
// bounds verbatim, nil included. An unrecognized preset value is
// treated as custom with whatever bounds are held; there is no error
// condition.
func (c Clock) Resolve(preset Preset, customFrom, customTo *time.Time) DateRange {
	d, ok := presetDurations[preset]
	if !ok {
		return DateRange{From: customFrom, To: customTo, Preset: Custom}
	}

	to := c.now()
	from := to.Add(-d)
	return DateRange{From: &from, To: &to, Preset: preset}
}

// Resolve is the package-level entry using the wall clock.
func Resolve(preset Preset, customFrom, customTo *time.Time) DateRange {
	return Clock{}.Resolve(preset, customFrom, customTo)
}
