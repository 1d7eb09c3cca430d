// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the vcscope TUI.
//
// A single Theme value holds every Lip Gloss style the views use: chat
// bubbles, pipeline stage indicators, investor cards, firm tables, and the
// status bar. Colors adapt to light and dark terminals automatically, and
// accessible shape indicators accompany every color-coded status.
package styles
