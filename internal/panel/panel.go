// Package panel defines the wire contract shared with the dashboard
// backend: the envelope returned by the panel data endpoint, the four
// payload variants it can carry, and the classifier that turns the raw
// envelope into a typed payload.
package panel

import "encoding/json"

// Type discriminates the payload variant carried by an Envelope.
type Type string

const (
	TypeTimeSeries   Type = "timeseries"
	TypeKPI          Type = "kpi"
	TypeHealthStatus Type = "health_status"
	TypeTable        Type = "table"
)

// Known returns true for the four panel types this client renders.
// The backend may grow additional types; those are reported as unknown
// rather than rejected at decode time.
func (t Type) Known() bool {
	switch t {
	case TypeTimeSeries, TypeKPI, TypeHealthStatus, TypeTable:
		return true
	}
	return false
}

// AggregationInfo describes the server-side bucketing applied to a
// time-series response.
type AggregationInfo struct {
	Applied        bool   `json:"applied"`
	BucketInterval string `json:"bucket_interval,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// Envelope is the raw response from GET /api/v1/panels/{id}/data.
// Data stays opaque until Classify inspects it against the declared
// panel type.
type Envelope struct {
	PanelID         string           `json:"panel_id"`
	PanelType       Type             `json:"panel_type"`
	Data            json.RawMessage  `json:"data"`
	AggregationInfo *AggregationInfo `json:"aggregation_info,omitempty"`
}
