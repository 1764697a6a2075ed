package panel

import (
	"net/url"
	"strconv"
	"time"
)

// RequestParams shapes one panel data request. A fresh value is built
// on every render-triggering input change; it is never mutated after
// construction. Pointer fields distinguish "not provided" from an
// explicit false/zero, which matters for disable_aggregation and page:
// the query string omits absent fields entirely.
type RequestParams struct {
	DateFrom           *time.Time
	DateTo             *time.Time
	DisableAggregation *bool
	SortColumn         string
	SortOrder          string
	Page               *int
}

// WithSort returns a copy carrying the given sort and the page reset
// to 1. Changing the sort always restarts pagination.
func (p RequestParams) WithSort(column, order string) RequestParams {
	p.SortColumn = column
	p.SortOrder = order
	first := 1
	p.Page = &first
	return p
}

// WithPage returns a copy on the given page, preserving sort.
func (p RequestParams) WithPage(page int) RequestParams {
	p.Page = &page
	return p
}

// Values encodes the params as backend query parameters, omitting any
// field that was not provided. The tenant id is added here because it
// is required on every request and never defaulted.
func (p RequestParams) Values(tenantID string) url.Values {
	v := url.Values{}
	v.Set("tenant_id", tenantID)

	if p.DateFrom != nil {
		v.Set("date_from", p.DateFrom.UTC().Format(time.RFC3339))
	}
	if p.DateTo != nil {
		v.Set("date_to", p.DateTo.UTC().Format(time.RFC3339))
	}
	if p.DisableAggregation != nil {
		v.Set("disable_aggregation", strconv.FormatBool(*p.DisableAggregation))
	}
	if p.SortColumn != "" {
		v.Set("sort_column", p.SortColumn)
	}
	if p.SortOrder != "" {
		v.Set("sort_order", p.SortOrder)
	}
	if p.Page != nil {
		v.Set("page", strconv.Itoa(*p.Page))
	}

	return v
}
