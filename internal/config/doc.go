// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for vcscope.
//
// Configuration lives in ~/.vcscope/config.toml with sensible defaults and
// environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (VCSCOPE_*)
//   - ~/.vcscope/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	base := cfg.API.BaseURL
//	theme := cfg.UI.Theme
//
// A Watcher can be attached to reload the file when it changes on disk;
// reload results are delivered as messages the TUI consumes.
package config
