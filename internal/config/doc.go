// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for freqdash.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: base URL, timeout and static headers for the remote service
//   - EndpointsConfig: the four endpoint paths
//   - UIConfig: theme and layout settings
//   - Watcher: reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FREQDASH_*), including those from .env files
//   - ~/.freqdash/config.toml
//   - ~/.freqdash/config.json
//   - ~/.freqdash/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := cfg.NewClient()
package config
