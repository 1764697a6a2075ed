package panel

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for classification outcomes. Callers branch with
// errors.Is; both are locally recoverable and scoped to one panel.
var (
	// ErrInvalidPayload indicates the data is structurally malformed
	// for the declared panel type.
	ErrInvalidPayload = errors.New("invalid panel payload")

	// ErrTypeMismatch indicates the envelope declares a different kind
	// than the renderer expected. Distinct from ErrInvalidPayload: the
	// payload may be perfectly well formed, just not for this panel.
	ErrTypeMismatch = errors.New("panel type mismatch")

	// ErrUnknownPanelType indicates a panel_type this client has no
	// renderer for.
	ErrUnknownPanelType = errors.New("unknown panel type")
)

// Classify validates the envelope's data against its declared type and
// returns the typed payload.
//
// Validation is deliberately shallow: presence and container-kind
// checks only. Element shapes, array-length parity, and numeric ranges
// are not verified, so additive backend changes never break the
// classifier. The cost is that malformed inner data surfaces at render
// time instead; renderers are written to tolerate it.
func Classify(env *Envelope) (Payload, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrInvalidPayload)
	}

	switch env.PanelType {
	case TypeTimeSeries:
		return classifyTimeSeries(env.Data)
	case TypeKPI:
		return classifyKPI(env.Data)
	case TypeHealthStatus:
		return classifyHealthStatus(env.Data)
	case TypeTable:
		return classifyTable(env.Data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPanelType, env.PanelType)
	}
}

// ClassifyAs is Classify with a renderer-side expectation. When the
// envelope declares a different (but known) kind than want, it reports
// ErrTypeMismatch so the caller can show a benign "no data" notice
// instead of an "invalid data" one.
func ClassifyAs(env *Envelope, want Type) (Payload, error) {
	if env != nil && env.PanelType != want && env.PanelType.Known() {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, env.PanelType, want)
	}
	return Classify(env)
}

func classifyTimeSeries(data json.RawMessage) (Payload, error) {
	if err := requireFields(data, map[string]jsonKind{"series": kindArray}); err != nil {
		return nil, fmt.Errorf("timeseries: %w", err)
	}
	var p TimeSeriesPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("timeseries: %w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

func classifyKPI(data json.RawMessage) (Payload, error) {
	if err := requireFields(data, map[string]jsonKind{"value": kindNumber}); err != nil {
		return nil, fmt.Errorf("kpi: %w", err)
	}
	// Absent decimals means "format to 1 decimal place".
	p := KPIPayload{Decimals: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("kpi: %w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

func classifyHealthStatus(data json.RawMessage) (Payload, error) {
	if err := requireFields(data, map[string]jsonKind{"services": kindArray}); err != nil {
		return nil, fmt.Errorf("health_status: %w", err)
	}
	var p HealthStatusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("health_status: %w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

func classifyTable(data json.RawMessage) (Payload, error) {
	if err := requireFields(data, map[string]jsonKind{"columns": kindArray, "rows": kindArray}); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	var p TablePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("table: %w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

// --- Structural predicates ---

type jsonKind int

const (
	kindArray jsonKind = iota
	kindNumber
)

// requireFields checks that data is a JSON object containing each named
// field with the expected container kind. Extra fields are ignored.
func requireFields(data json.RawMessage, want map[string]jsonKind) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: not an object", ErrInvalidPayload)
	}

	for field, kind := range want {
		raw, ok := obj[field]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidPayload, field)
		}
		if !matchesKind(raw, kind) {
			return fmt.Errorf("%w: field %q has wrong type", ErrInvalidPayload, field)
		}
	}
	return nil
}

func matchesKind(raw json.RawMessage, kind jsonKind) bool {
	tok := firstToken(raw)
	switch kind {
	case kindArray:
		return tok == '['
	case kindNumber:
		return tok == '-' || (tok >= '0' && tok <= '9')
	}
	return false
}

// firstToken returns the first non-whitespace byte of a JSON value, or
// zero for empty input.
func firstToken(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
