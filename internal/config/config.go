// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for freqdash.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.freqdash/config.toml
//   - ~/.freqdash/config.json
//   - ~/.freqdash/config.yaml
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/metrics"
	"github.com/jeranaias/freqdash/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete freqdash configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	// Remote service connection
	API APIConfig `toml:"api" json:"api" yaml:"api"`

	// Endpoint paths, relative to api.base_url or absolute
	Endpoints EndpointsConfig `toml:"endpoints" json:"endpoints" yaml:"endpoints"`

	// Metrics cache
	Metrics MetricsConfig `toml:"metrics" json:"metrics" yaml:"metrics"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// APIConfig contains the remote service settings.
type APIConfig struct {
	// BaseURL is prepended to relative endpoint paths
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`
	// TimeoutSecs bounds each request; 0 means no timeout
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	// Headers are extra static headers sent on every request
	Headers map[string]string `toml:"headers,omitempty" json:"headers,omitempty" yaml:"headers,omitempty"`
}

// EndpointsConfig holds the four paths the dashboard calls.
type EndpointsConfig struct {
	Message       string `toml:"message" json:"message" yaml:"message"`
	ClearHistory  string `toml:"clear_history" json:"clear_history" yaml:"clear_history"`
	StartTraining string `toml:"start_training" json:"start_training" yaml:"start_training"`
	Metrics       string `toml:"metrics" json:"metrics" yaml:"metrics"`
}

// MetricsConfig contains metrics cache settings.
type MetricsConfig struct {
	// TTLMs is how long a fetched series is served from cache, in milliseconds
	TTLMs int64 `toml:"ttl_ms" json:"ttl_ms" yaml:"ttl_ms"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode" yaml:"compact_mode"`
	// ShowTimestamps shows HH:MM next to chat messages
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps" yaml:"show_timestamps"`
	// ChartHeight is the metrics chart height in rows
	ChartHeight int `toml:"chart_height" json:"chart_height" yaml:"chart_height"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// File receives log output while the TUI owns the terminal
	File string `toml:"file" json:"file" yaml:"file"`
	// Verbose enables log output in CLI mode
	Verbose bool `toml:"verbose" json:"verbose" yaml:"verbose"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the address of a locally running service.
const DefaultBaseURL = "http://localhost:8000"

// Default returns a new Config with default values.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "freqdash.log")
	}

	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			TimeoutSecs: 0,
		},
		Endpoints: EndpointsConfig{
			Message:       api.DefaultMessagePath,
			ClearHistory:  api.DefaultClearHistoryPath,
			StartTraining: api.DefaultStartTrainingPath,
			Metrics:       api.DefaultMetricsPath,
		},
		Metrics: MetricsConfig{
			TTLMs: metrics.DefaultTTL.Milliseconds(),
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
			ChartHeight:    12,
		},
		Logging: LoggingConfig{
			File: logFile,
		},
	}
}

// APIEndpoints converts the endpoint config to the client's type.
func (c *Config) APIEndpoints() api.Endpoints {
	return api.Endpoints{
		Message:       c.Endpoints.Message,
		ClearHistory:  c.Endpoints.ClearHistory,
		StartTraining: c.Endpoints.StartTraining,
		Metrics:       c.Endpoints.Metrics,
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// MetricsTTL returns the cache TTL as a duration.
func (c *Config) MetricsTTL() time.Duration {
	return time.Duration(c.Metrics.TTLMs) * time.Millisecond
}

// NewClient builds the shared API client from this configuration.
func (c *Config) NewClient() *api.Client {
	return api.NewClient(c.API.BaseURL).
		WithEndpoints(c.APIEndpoints()).
		WithTimeout(c.Timeout()).
		WithHeaders(c.API.Headers)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the freqdash configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".freqdash"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	return configPath("config.toml")
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	return configPath("config.json")
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	return configPath("config.yaml")
}

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// CandidatePaths returns the config files Load looks for, in order.
func CandidatePaths() []string {
	var paths []string
	for _, fn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON, ConfigPathYAML} {
		if p, err := fn(); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// ActivePath returns the first existing config file, or "" if none exists.
func ActivePath() string {
	for _, p := range CandidatePaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env files from the config directory and the working
// directory. Variables already set in the environment win.
func LoadDotEnv() {
	var files []string
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	files = append(files, ".env")

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", f, err)
		}
	}
}

// Load loads configuration from the first config file that exists.
// Tries TOML, then JSON, then YAML, and falls back to defaults.
// .env files and environment overrides are applied last.
func Load() (*Config, error) {
	LoadDotEnv()

	var loadErr error
	for _, path := range CandidatePaths() {
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		// A broken file is reported but the next format is still tried.
		if loadErr == nil {
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Environment overrides are applied on top of the file.
func LoadFromPath(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile decodes path over the defaults without environment overrides or
// validation, for editing the file in place. The format is chosen by
// extension; anything unrecognized is read as TOML.
func ReadFile(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := LoadYAML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load YAML config from %s: %w", path, err)
		}
	default:
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTo saves the configuration in the format implied by path's extension.
func SaveTo(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(cfg, path)
	case ".yaml", ".yml":
		return SaveYAML(cfg, path)
	default:
		return SaveTOML(cfg, path)
	}
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# freqdash configuration file\n")
	b.WriteString("# Generated by freqdash - edit with care\n")
	b.WriteString("\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveYAML saves the configuration to a YAML file.
func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// API
	if c.API.BaseURL != "" {
		if err := validateHTTPURL(c.API.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: err.Error(),
			})
		}
	}
	if c.API.TimeoutSecs < 0 || c.API.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 0 and 3600, got %d", c.API.TimeoutSecs),
		})
	}
	for name := range c.API.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " :\r\n") {
			errs = append(errs, ValidationError{
				Field:   "api.headers",
				Message: fmt.Sprintf("invalid header name %q", name),
			})
		}
	}

	// Endpoints
	endpoints := []struct {
		field string
		value string
	}{
		{"endpoints.message", c.Endpoints.Message},
		{"endpoints.clear_history", c.Endpoints.ClearHistory},
		{"endpoints.start_training", c.Endpoints.StartTraining},
		{"endpoints.metrics", c.Endpoints.Metrics},
	}
	for _, ep := range endpoints {
		if strings.HasPrefix(ep.value, "/") {
			if c.API.BaseURL == "" {
				errs = append(errs, ValidationError{
					Field:   ep.field,
					Message: "relative path requires api.base_url",
				})
			}
			continue
		}
		if err := validateHTTPURL(ep.value); err != nil {
			errs = append(errs, ValidationError{
				Field:   ep.field,
				Message: "must be a path starting with '/' or an absolute http(s) URL",
			})
		}
	}

	// Metrics
	if c.Metrics.TTLMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "metrics.ttl_ms",
			Message: fmt.Sprintf("must not be negative, got %d", c.Metrics.TTLMs),
		})
	}

	// UI
	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if c.UI.ChartHeight < 4 || c.UI.ChartHeight > 40 {
		errs = append(errs, ValidationError{
			Field:   "ui.chart_height",
			Message: fmt.Sprintf("must be between 4 and 40, got %d", c.UI.ChartHeight),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// SetDefaults fills in zero values that would otherwise be invalid.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	c.API.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.API.BaseURL), "/")

	if c.Endpoints.Message == "" {
		c.Endpoints.Message = defaults.Endpoints.Message
	}
	if c.Endpoints.ClearHistory == "" {
		c.Endpoints.ClearHistory = defaults.Endpoints.ClearHistory
	}
	if c.Endpoints.StartTraining == "" {
		c.Endpoints.StartTraining = defaults.Endpoints.StartTraining
	}
	if c.Endpoints.Metrics == "" {
		c.Endpoints.Metrics = defaults.Endpoints.Metrics
	}

	if c.Metrics.TTLMs == 0 {
		c.Metrics.TTLMs = defaults.Metrics.TTLMs
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.UI.ChartHeight == 0 {
		c.UI.ChartHeight = defaults.UI.ChartHeight
	}

	if c.Logging.File == "" {
		c.Logging.File = defaults.Logging.File
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FREQDASH_API_URL: overrides api.base_url
//   - FREQDASH_TIMEOUT: overrides api.timeout_secs
//   - FREQDASH_METRICS_TTL: overrides metrics.ttl_ms
//   - FREQDASH_THEME: overrides ui.theme
//   - FREQDASH_LOG_FILE: overrides logging.file
//   - FREQDASH_VERBOSE: set to "1" or "true" to enable verbose logging
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("FREQDASH_API_URL"); u != "" {
		c.API.BaseURL = u
	}

	if t := os.Getenv("FREQDASH_TIMEOUT"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil {
			c.API.TimeoutSecs = secs
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring FREQDASH_TIMEOUT=%q: not an integer\n", t)
		}
	}

	if ttl := os.Getenv("FREQDASH_METRICS_TTL"); ttl != "" {
		if ms, err := strconv.ParseInt(ttl, 10, 64); err == nil {
			c.Metrics.TTLMs = ms
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring FREQDASH_METRICS_TTL=%q: not an integer\n", ttl)
		}
	}

	if theme := os.Getenv("FREQDASH_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if f := os.Getenv("FREQDASH_LOG_FILE"); f != "" {
		c.Logging.File = f
	}

	if v := os.Getenv("FREQDASH_VERBOSE"); v != "" {
		c.Logging.Verbose = v == "1" || strings.ToLower(v) == "true"
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all scalar configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"endpoints.message",
		"endpoints.clear_history",
		"endpoints.start_training",
		"endpoints.metrics",
		"metrics.ttl_ms",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_timestamps",
		"ui.chart_height",
		"logging.file",
		"logging.verbose",
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.API.Headers != nil {
		clone.API.Headers = make(map[string]string, len(c.API.Headers))
		for k, v := range c.API.Headers {
			clone.API.Headers[k] = v
		}
	}
	return &clone
}

// String returns a string representation of the config for debugging.
// Header values are redacted since they commonly carry tokens.
func (c *Config) String() string {
	safe := c.Clone()
	for k := range safe.API.Headers {
		safe.API.Headers[k] = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
