package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"opsdash/internal/config"
)

// setupTestConfig points the config package at a temp file and returns cleanup.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_ServerURL(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "server-url", "https://dash.example.com")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"https://dash.example.com"`) {
		t.Errorf("expected confirmation with the url, got: %s", stdout)
	}

	// Verify it was persisted.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ServerURL != "https://dash.example.com" {
		t.Errorf("expected ServerURL %q, got %q", "https://dash.example.com", cfg.ServerURL)
	}
}

func TestSet_ServerURL_PreservesCase(t *testing.T) {
	setupTestConfig(t)

	execConfig(t, "set", "SERVER-URL", "https://Dash.Example.com/Path")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	// Key names normalize; values must not.
	if cfg.ServerURL != "https://Dash.Example.com/Path" {
		t.Errorf("value was mangled: %q", cfg.ServerURL)
	}
}

func TestSet_DefaultRange(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "default-range", "7d")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultRange != "7d" {
		t.Errorf("expected DefaultRange %q, got %q", "7d", cfg.DefaultRange)
	}
}

func TestSet_DefaultRange_Invalid(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "default-range", "90d")

	if !strings.Contains(stderr, "unknown range") {
		t.Errorf("expected 'unknown range' error, got: %s", stderr)
	}
	if !strings.Contains(stderr, "1h, 24h, 7d, 30d") {
		t.Errorf("expected valid ranges in error, got: %s", stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultRange != "" {
		t.Errorf("invalid value was persisted: %q", cfg.DefaultRange)
	}
}

func TestSet_DefaultRange_AcceptsWireValue(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "default-range", "last_24h")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
