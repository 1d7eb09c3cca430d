// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the shared UI components for the vcscope TUI.
//
// Components are small Bubble Tea models composed by the views: spinners for
// in-flight requests, the header and status bar framing every screen, error
// boxes, and the completion banner shown when the intake conversation hands
// off to analysis.
package components
