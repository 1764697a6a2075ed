// Package gateway is the HTTP client for the dashboard backend. It
// owns bearer-token attachment, tenant scoping, query-parameter
// encoding, and the translation of transport and status failures into
// the error taxonomy the rest of the client works with.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"opsdash/internal/panel"
	"opsdash/internal/services/auth"
	"opsdash/internal/util"
)

const defaultTimeout = 30 * time.Second

// Client talks to one backend server on behalf of one auth store.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  auth.Store
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests
// and by callers that need custom transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a client for the given server URL. A scheme-less URL is
// assumed to be https.
func New(server string, tokens auth.Store, opts ...Option) *Client {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server != "" && !strings.Contains(server, "://") {
		server = "https://" + server
	}

	c := &Client{
		baseURL: server,
		httpc:   &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Server returns the base URL this client targets.
func (c *Client) Server() string {
	return c.baseURL
}

// PanelData fetches one panel's data envelope. The tenant id is
// required and never defaulted; params encode only the fields that
// were actually provided.
func (c *Client) PanelData(ctx context.Context, tenantID, panelID string, params panel.RequestParams) (*panel.Envelope, error) {
	if err := util.ValidateIdentifier("tenant", tenantID); err != nil {
		return nil, err
	}
	if err := util.ValidateIdentifier("panel", panelID); err != nil {
		return nil, err
	}

	var env panel.Envelope
	path := "/api/v1/panels/" + url.PathEscape(panelID) + "/data"
	if err := c.getJSON(ctx, path, params.Values(tenantID), true, &env); err != nil {
		return nil, fmt.Errorf("failed to fetch panel %q: %w", panelID, err)
	}
	return &env, nil
}

// Health probes the backend's unauthenticated health endpoint. This is
// the one call that deliberately omits the bearer credential.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/health", nil, false, &status); err != nil {
		return fmt.Errorf("backend health check failed: %w", err)
	}
	if status.Status != "healthy" {
		return fmt.Errorf("backend reports status %q", status.Status)
	}
	return nil
}

// getJSON issues a GET and decodes the body. When authenticated is
// true, a stored bearer token is attached if one exists; a missing
// token still sends the request and lets the backend answer 401 rather
// than short-circuiting locally.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, authenticated bool, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if authenticated {
		token, err := c.tokens.GetToken(c.baseURL)
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else if err != nil && !errors.Is(err, auth.ErrTokenNotFound) {
			return fmt.Errorf("reading auth token: %w", err)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classifyStatus maps non-2xx responses onto the error taxonomy.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w (HTTP 401)", ErrUnauthorized)
	}

	return &StatusError{
		Code:   resp.StatusCode,
		Status: resp.Status,
		Detail: readDetail(resp.Body),
	}
}

// readDetail extracts the backend's {"detail": "..."} message when the
// error body carries one. Anything unparseable is dropped; the status
// line alone is enough to surface.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
