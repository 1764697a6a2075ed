// Package layout reads local dashboard layout overrides.
//
// The backend's dashboard definition is authoritative, but operators
// can carry a YAML file that reorders panels, drops ones they never
// look at, or changes poll cadences without touching the server.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"opsdash/internal/gateway"
)

// PanelOverride adjusts a single panel by ID.
type PanelOverride struct {
	ID string `yaml:"id"`

	// Hide removes the panel from the grid.
	Hide bool `yaml:"hide,omitempty"`

	// Title replaces the display title.
	Title string `yaml:"title,omitempty"`

	// RefreshInterval replaces the poll cadence, in seconds.
	RefreshInterval int `yaml:"refresh_interval,omitempty"`
}

// Override is the root of a layout override file.
type Override struct {
	// Dashboard restricts the override to one dashboard. Empty applies
	// to all dashboards.
	Dashboard string `yaml:"dashboard,omitempty"`

	// Order lists panel IDs in display order. Panels not listed keep
	// their relative server order after the listed ones.
	Order []string `yaml:"order,omitempty"`

	Panels []PanelOverride `yaml:"panels,omitempty"`
}

// Load parses an override file.
func Load(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: failed to read %s: %w", path, err)
	}
	var o Override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("layout: failed to parse %s: %w", path, err)
	}
	return &o, nil
}

// Apply returns the dashboard's panels with the override applied. The
// input slice is not mutated. A nil override or one scoped to a
// different dashboard returns the panels unchanged.
func (o *Override) Apply(name string, panels []gateway.PanelRef) []gateway.PanelRef {
	if o == nil || (o.Dashboard != "" && o.Dashboard != name) {
		return panels
	}

	byID := make(map[string]PanelOverride, len(o.Panels))
	for _, p := range o.Panels {
		byID[p.ID] = p
	}

	out := make([]gateway.PanelRef, 0, len(panels))
	for _, ref := range panels {
		ov, found := byID[ref.ID]
		if found && ov.Hide {
			continue
		}
		if found {
			if ov.Title != "" {
				ref.Title = ov.Title
			}
			if ov.RefreshInterval > 0 {
				ref.RefreshInterval = ov.RefreshInterval
			}
		}
		out = append(out, ref)
	}

	if len(o.Order) == 0 {
		return out
	}

	rank := make(map[string]int, len(o.Order))
	for i, id := range o.Order {
		rank[id] = i
	}

	ordered := make([]gateway.PanelRef, 0, len(out))
	var rest []gateway.PanelRef
	for _, ref := range out {
		if _, listed := rank[ref.ID]; listed {
			ordered = append(ordered, ref)
		} else {
			rest = append(rest, ref)
		}
	}
	// Stable insertion sort keeps the listed panels in Order sequence.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && rank[ordered[j].ID] < rank[ordered[j-1].ID]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return append(ordered, rest...)
}
