// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears FREQDASH_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"FREQDASH_API_URL", "FREQDASH_TIMEOUT", "FREQDASH_METRICS_TTL",
		"FREQDASH_THEME", "FREQDASH_LOG_FILE", "FREQDASH_VERBOSE",
	} {
		t.Setenv(k, "")
	}
	// .env in the working directory must not leak into tests.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { os.Chdir(wd) })
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	isolate(t)
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "/api/v1/claude/message", cfg.Endpoints.Message)
	assert.Equal(t, "/api/v1/claude/clear-history", cfg.Endpoints.ClearHistory)
	assert.Equal(t, "/api/v1/claude/start-training", cfg.Endpoints.StartTraining)
	assert.Equal(t, "/api/metrics", cfg.Endpoints.Metrics)
	assert.Equal(t, int64(300000), cfg.Metrics.TTLMs)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
	assert.Equal(t, 5*time.Minute, cfg.MetricsTTL())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "", ActivePath())
}

// =============================================================================
// FILE FORMATS
// =============================================================================

func TestLoad_TOML(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".freqdash", "config.toml"), `
[api]
base_url = "https://dash.example.com/"
timeout_secs = 15

[api.headers]
X-Team = "ml"

[endpoints]
metrics = "/v2/metrics"

[ui]
theme = "Dark"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, "ml", cfg.API.Headers["X-Team"])
	assert.Equal(t, "/v2/metrics", cfg.Endpoints.Metrics)
	assert.Equal(t, "/api/v1/claude/message", cfg.Endpoints.Message, "unset endpoints keep defaults")
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".freqdash", "config.json"), `{
		"api": {"base_url": "http://10.0.0.5:9000"},
		"metrics": {"ttl_ms": 1000}
	}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, time.Second, cfg.MetricsTTL())
}

func TestLoad_YAMLFallback(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".freqdash", "config.yaml"), `
api:
  base_url: http://yaml.local:8000
ui:
  chart_height: 20
  compact_mode: true
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://yaml.local:8000", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.UI.ChartHeight)
	assert.True(t, cfg.UI.CompactMode)
}

func TestLoad_TOMLWinsOverJSON(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".freqdash", "config.toml"), "[api]\nbase_url = \"http://toml:1\"\n")
	writeFile(t, filepath.Join(home, ".freqdash", "config.json"), `{"api":{"base_url":"http://json:1"}}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://toml:1", cfg.API.BaseURL)
}

func TestLoad_BrokenFileFallsBack(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".freqdash", "config.toml"), "this is = = not toml")

	cfg, err := Load()
	require.Error(t, err, "load error is reported")
	require.NotNil(t, cfg, "defaults are still returned")
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[ui]\ntheme = \"neon\"\nchart_height = 2\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"ui.theme", "ui.chart_height"}, fields)
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FREQDASH_API_URL", "http://env:7000")
	t.Setenv("FREQDASH_TIMEOUT", "30")
	t.Setenv("FREQDASH_METRICS_TTL", "60000")
	t.Setenv("FREQDASH_THEME", "light")
	t.Setenv("FREQDASH_LOG_FILE", "/tmp/fd.log")
	t.Setenv("FREQDASH_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:7000", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, int64(60000), cfg.Metrics.TTLMs)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "/tmp/fd.log", cfg.Logging.File)
	assert.True(t, cfg.Logging.Verbose)
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	isolate(t)
	t.Setenv("FREQDASH_TIMEOUT", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 0, cfg.API.TimeoutSecs)
}

func TestLoad_DotEnv(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".freqdash", ".env"), "FREQDASH_API_URL=http://dotenv:8000\n")
	// godotenv sets real process env; clear it afterwards.
	t.Cleanup(func() { os.Unsetenv("FREQDASH_API_URL") })
	os.Unsetenv("FREQDASH_API_URL")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:8000", cfg.API.BaseURL)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -1 }, "api.timeout_secs"},
		{"bad header", func(c *Config) { c.API.Headers = map[string]string{"Bad Name": "x"} }, "api.headers"},
		{"relative without base", func(c *Config) { c.API.BaseURL = "" }, "endpoints.message"},
		{"bare endpoint", func(c *Config) { c.Endpoints.Metrics = "metrics" }, "endpoints.metrics"},
		{"negative ttl", func(c *Config) { c.Metrics.TTLMs = -5 }, "metrics.ttl_ms"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_AbsoluteEndpointsWithoutBase(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = ""
	cfg.Endpoints = EndpointsConfig{
		Message:       "http://a/m",
		ClearHistory:  "http://a/c",
		StartTraining: "http://a/s",
		Metrics:       "https://b/metrics",
	}
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// GET / SET
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api.base_url", "http://set:1"))
	require.NoError(t, cfg.Set("api.timeout_secs", "12"))
	require.NoError(t, cfg.Set("ui.compact_mode", "yes"))
	require.NoError(t, cfg.Set("metrics.ttl_ms", int64(5)))

	v, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://set:1", v)
	assert.Equal(t, 12, cfg.API.TimeoutSecs)
	assert.True(t, cfg.UI.CompactMode)
	assert.Equal(t, int64(5), cfg.Metrics.TTLMs)

	_, err = cfg.Get("api.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("api.timeout_secs", "abc"))
	assert.Error(t, cfg.Set("api.base_url.deeper", "x"))
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

// =============================================================================
// SAVE
// =============================================================================

func TestSaveTo_RoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := Default()
	cfg.API.BaseURL = "http://saved:1"
	cfg.API.Headers = map[string]string{"X-Team": "ml"}

	for _, name := range []string{"c.toml", "c.json", "c.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveTo(cfg, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			loaded, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, "http://saved:1", loaded.API.BaseURL)
			assert.Equal(t, "ml", loaded.API.Headers["X-Team"])
		})
	}
}

func TestString_RedactsHeaders(t *testing.T) {
	cfg := Default()
	cfg.API.Headers = map[string]string{"X-Token": "secret"}
	assert.NotContains(t, cfg.String(), "secret")
	assert.Equal(t, "secret", cfg.API.Headers["X-Token"], "original is untouched")
}

func TestNewClient_UsesConfig(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "http://client:1"
	cfg.Endpoints.Metrics = "/m"

	client := cfg.NewClient()
	assert.Equal(t, "http://client:1", client.BaseURL())
	assert.Equal(t, "/m", client.Endpoints().Metrics)
}

// =============================================================================
// READ FILE
// =============================================================================

func TestReadFile_SkipsEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FREQDASH_API_URL", "http://from-env:1")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.API.BaseURL = "http://from-file:1"
	require.NoError(t, SaveTo(cfg, path))

	raw, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:1", raw.API.BaseURL)

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:1", loaded.API.BaseURL)
}
