// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
	"github.com/jeranaias/vcscope-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusWaiting
	StatusRunning
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusWaiting:
		return "Waiting..."
	case StatusRunning:
		return "Running..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusWaiting, StatusRunning:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// Shortcut is one key hint shown on the right side of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom status bar shown under every view.
type StatusBar struct {
	ViewName  string
	Status    Status
	Detail    string
	Width     int
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		ViewName: "Home",
		Status:   StatusReady,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetView updates the current view name.
func (s *StatusBar) SetView(name string) {
	s.ViewName = name
}

// SetStatus updates the current status. Detail is extra context shown after
// the status word, like the running pipeline stage.
func (s *StatusBar) SetStatus(status Status, detail string) {
	s.Status = status
	s.Detail = detail
}

// SetShortcuts replaces the key hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.Shortcuts = shortcuts
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width <= 0 {
		return ""
	}

	viewStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	left := viewStyle.Render(s.ViewName) + "  " + s.renderStatus()

	right := s.renderShortcuts()

	// Pad the gap so the shortcuts hug the right edge.
	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = s.Width - lipgloss.Width(left) - 2
		if gap < 0 {
			gap = 0
		}
	}

	bar := left + strings.Repeat(" ", gap) + right
	return s.theme.StatusBar.Width(s.Width).Render(bar)
}

func (s *StatusBar) renderStatus() string {
	var style lipgloss.Style
	switch s.Status {
	case StatusError:
		style = s.theme.ErrorStyle
	case StatusWaiting, StatusRunning:
		style = s.theme.WarningStyle
	default:
		style = s.theme.SuccessStyle
	}

	text := s.Status.Icon() + " " + s.Status.String()
	if s.Detail != "" {
		text += " " + util.TruncateWidth(s.Detail, 40)
	}
	return style.Render(text)
}

func (s *StatusBar) renderShortcuts() string {
	if len(s.Shortcuts) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
