// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for zonedash.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation. Widget preferences are not
// configuration; they live in the settings document next to the layout.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - WidgetConfig: widget name, layout file and iCloud directory naming
//   - StorageConfig: storage backend selection
//   - NetworkConfig: offline mode, rate limit and data endpoints
//   - LocationConfig: the fixed location used for sunrise and sunset
//   - RenderConfig: terminal width and dark mode
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ZONEDASH_*)
//   - ~/.zonedash/config.toml
//   - ~/.zonedash/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Printf("config: %v", err)
//	}
//	store, err := storage.Open(cfg.StorageOptions())
package config
