package gateway

import (
	"context"
	"fmt"
	"net/url"

	"opsdash/internal/panel"
	"opsdash/internal/util"
)

// Tenant is one tenant the authenticated user can access.
type Tenant struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// GridPosition places a panel in the dashboard's 12-column grid.
type GridPosition struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PanelRef is a dashboard's reference to one panel. RefreshInterval,
// when non-zero, overrides the dashboard-wide poll cadence (seconds).
type PanelRef struct {
	ID              string       `json:"id"`
	Title           string       `json:"title,omitempty"`
	Type            panel.Type   `json:"type,omitempty"`
	RefreshInterval int          `json:"refresh_interval,omitempty"`
	Position        GridPosition `json:"position"`
}

// DisplayTitle returns the panel's title, falling back to its id.
func (r PanelRef) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// Dashboard is a named arrangement of panels for one tenant.
// RefreshInterval is the dashboard-wide default poll cadence in
// seconds; individual panels may override it via a layout file.
type Dashboard struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	RefreshInterval int        `json:"refresh_interval"`
	Panels          []PanelRef `json:"panels"`
}

// ListTenants returns the tenants accessible to the current user.
func (c *Client) ListTenants(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	if err := c.getJSON(ctx, "/api/v1/tenants/", nil, true, &tenants); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// ListDashboards returns the dashboard names available for a tenant.
func (c *Client) ListDashboards(ctx context.Context, tenantID string) ([]string, error) {
	if err := util.ValidateIdentifier("tenant", tenantID); err != nil {
		return nil, err
	}

	var resp struct {
		Dashboards []string `json:"dashboards"`
	}
	q := url.Values{"tenant_id": {tenantID}}
	if err := c.getJSON(ctx, "/api/v1/dashboards", q, true, &resp); err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	return resp.Dashboards, nil
}

// Dashboard fetches one dashboard's configuration for a tenant.
func (c *Client) Dashboard(ctx context.Context, tenantID, name string) (*Dashboard, error) {
	if err := util.ValidateIdentifier("tenant", tenantID); err != nil {
		return nil, err
	}
	if name == "" {
		name = "default"
	}

	var d Dashboard
	q := url.Values{"tenant_id": {tenantID}}
	if err := c.getJSON(ctx, "/api/v1/dashboards/"+url.PathEscape(name), q, true, &d); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard %q: %w", name, err)
	}
	return &d, nil
}
