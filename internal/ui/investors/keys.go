// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investors

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings for the directory views.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Search   key.Binding
	Stage    key.Binding
	Sector   key.Binding
	Profile  key.Binding
	Mentions key.Binding
	Reload   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings for the directory views.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down", "move down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Stage: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle stage"),
		),
		Sector: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cycle sector"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profile by id"),
		),
		Mentions: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "find mentions"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}
