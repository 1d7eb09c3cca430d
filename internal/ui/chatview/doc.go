// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatview provides the intake conversation view for the TUI.
//
// The view drives a chat.Conversation: it opens the conversation with the
// backend, forwards each answer together with the opaque conversation state
// token, shows a typing indicator while a turn is in flight, and raises a
// completion banner once the advisor has assembled the full company profile.
// Network calls run as Bubble Tea commands whose inputs are captured in the
// update loop, so goroutines never touch the model.
package chatview
