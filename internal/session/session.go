// Package session resolves the ambient context a command runs in: the
// backend server, the authenticated client, and the selected tenant.
// Precedence is always flag, then persisted configuration, then error.
package session

import (
	"errors"
	"fmt"
	"strings"

	"opsdash/internal/config"
	"opsdash/internal/daterange"
	"opsdash/internal/gateway"
	"opsdash/internal/services/auth"
	"opsdash/internal/tenantstore"
)

// ErrNoServer is returned when neither --server nor the server-url
// config key is set.
var ErrNoServer = errors.New("no server configured (use --server or: opsdash config set server-url <url>)")

// ErrNoTenant is returned when no tenant is selected and none was
// passed on the command line.
var ErrNoTenant = errors.New("no tenant selected (use --tenant or: opsdash tenant use <tenant-id>)")

// ServerURL resolves the backend server from the flag value or the
// persisted configuration.
func ServerURL(flag string) (string, error) {
	if s := strings.TrimSpace(flag); s != "" {
		return s, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.ServerURL != "" {
		return cfg.ServerURL, nil
	}
	return "", ErrNoServer
}

// Client builds an authenticated gateway client for the resolved
// server.
func Client(serverFlag string) (*gateway.Client, error) {
	server, err := ServerURL(serverFlag)
	if err != nil {
		return nil, err
	}
	return gateway.New(server, auth.DefaultStore()), nil
}

// Tenant resolves the tenant a command operates on. A flag value wins;
// otherwise the persisted selection for the server is used.
func Tenant(server, flag string) (string, error) {
	if t := strings.TrimSpace(flag); t != "" {
		return t, nil
	}

	store, err := tenantstore.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open tenant store: %w", err)
	}
	defer store.Close()

	u, err := store.Current(auth.NormalizeServer(server))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrNoTenant
	}
	return u.TenantID, nil
}

// Preset resolves the date range preset from the flag value or the
// default-range config key, falling back to the last 24 hours.
func Preset(flag string) daterange.Preset {
	if p := normalizePreset(flag); p != "" {
		return p
	}
	if cfg, err := config.Load(); err == nil {
		if p := normalizePreset(cfg.DefaultRange); p != "" {
			return p
		}
	}
	return daterange.Last24h
}

// normalizePreset accepts both the wire value ("last_24h") and the
// short label ("24h").
func normalizePreset(s string) daterange.Preset {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range daterange.Presets() {
		if string(p) == s || p.Label() == s {
			return p
		}
	}
	return ""
}

// ExportDir returns where exports are written, defaulting to the
// working directory.
func ExportDir() string {
	if cfg, err := config.Load(); err == nil && cfg.ExportDir != "" {
		return cfg.ExportDir
	}
	return "."
}
