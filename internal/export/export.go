// Package export converts classified panel payloads into CSV and JSON
// for drill-down downloads and the panel export command.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"opsdash/internal/panel"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want csv or json)", s)
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string { return string(f) }

// Marshal renders a payload in the requested format. CSV is only
// defined for time-series and table payloads; every other payload kind
// falls back to indented JSON so an export request never comes back
// empty-handed.
func Marshal(p panel.Payload, f Format) ([]byte, error) {
	if f == FormatCSV {
		switch tp := p.(type) {
		case *panel.TimeSeriesPayload:
			return timeSeriesCSV(tp)
		case *panel.TablePayload:
			return tableCSV(tp)
		}
	}
	return json.MarshalIndent(p, "", "  ")
}

// timeSeriesCSV flattens every series into timestamp,value,series
// rows. Rows beyond a series' usable point count are dropped rather
// than padded.
func timeSeriesCSV(p *panel.TimeSeriesPayload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "value", "series"}); err != nil {
		return nil, err
	}
	for i, s := range p.Series {
		label := s.Label
		if label == "" {
			label = fmt.Sprintf("series %d", i+1)
		}
		for j := 0; j < s.Points(); j++ {
			rec := []string{
				s.Timestamps[j],
				strconv.FormatFloat(s.Values[j], 'f', -1, 64),
				label,
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tableCSV emits columns in their declared order with display names as
// the header. Cell values are the raw values, not the rendered
// per-format presentation, so re-imports stay lossless.
func tableCSV(p *panel.TablePayload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		name := col.Display
		if name == "" {
			name = col.Name
		}
		header[i] = name
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	rec := make([]string, len(p.Columns))
	for _, row := range p.Rows {
		for i, col := range p.Columns {
			rec[i] = cellString(row[col.Name])
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellString coerces a decoded JSON cell value to its canonical text
// form. Null becomes the empty string; numbers avoid exponent
// notation.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
