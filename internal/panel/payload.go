package panel

// Payload is the tagged union of the four panel data shapes. The only
// behavior the variants share is the discriminant; rendering and export
// type-switch on the concrete type.
type Payload interface {
	Kind() Type
}

// --- Time series ---

// Series is one named line in a time-series panel. Timestamps and
// Values are parallel arrays; the classifier does not enforce equal
// length, so consumers must clamp to the shorter of the two.
type Series struct {
	Timestamps []string  `json:"timestamps"`
	Values     []float64 `json:"values"`
	Label      string    `json:"label"`
}

// Points returns the number of renderable points: the shorter of the
// two parallel arrays.
func (s Series) Points() int {
	if len(s.Timestamps) < len(s.Values) {
		return len(s.Timestamps)
	}
	return len(s.Values)
}

type TimeSeriesPayload struct {
	Series []Series `json:"series"`
}

func (TimeSeriesPayload) Kind() Type { return TypeTimeSeries }

// --- KPI ---

// KPIPayload is a single current value with optional display hints.
// Decimals defaults to 1 when the backend omits it.
type KPIPayload struct {
	Value           float64 `json:"value"`
	Unit            string  `json:"unit,omitempty"`
	Decimals        int     `json:"decimals"`
	ThresholdStatus string  `json:"threshold_status,omitempty"`
	ThresholdColor  string  `json:"threshold_color,omitempty"`
}

func (KPIPayload) Kind() Type { return TypeKPI }

// --- Health status ---

type ServiceStatus struct {
	ServiceName  string  `json:"service_name"`
	StatusValue  float64 `json:"status_value"`
	StatusLabel  string  `json:"status_label"`
	StatusColor  string  `json:"status_color"`
	LastCheck    string  `json:"last_check,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type HealthStatusPayload struct {
	Services []ServiceStatus `json:"services"`
}

func (HealthStatusPayload) Kind() Type { return TypeHealthStatus }

// --- Table ---

// Column describes one table column. Format "datetime" routes the cell
// through a date formatter at render time; anything else renders as the
// string coercion of the raw scalar.
type Column struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Format  string `json:"format,omitempty"`
}

// Pagination metadata is authoritative from the server; the client
// never computes page counts itself.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalRows   int `json:"total_rows"`
	TotalPages  int `json:"total_pages"`
}

// Sort reports the ordering the server actually applied.
type Sort struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

type TablePayload struct {
	Columns    []Column         `json:"columns"`
	Rows       []map[string]any `json:"rows"`
	Pagination *Pagination      `json:"pagination,omitempty"`
	Sort       *Sort            `json:"sort,omitempty"`
}

func (TablePayload) Kind() Type { return TypeTable }
