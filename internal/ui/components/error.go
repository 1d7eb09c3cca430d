// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BOX COMPONENT
// =============================================================================

// ErrorBox renders an error with a recovery hint.
type ErrorBox struct {
	Title   string
	Message string
	Tip     string
	Width   int
	theme   *styles.Theme
}

// NewErrorBox creates an empty error box.
func NewErrorBox(theme *styles.Theme) *ErrorBox {
	return &ErrorBox{
		Title: "Something went wrong",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the box width.
func (e *ErrorBox) SetWidth(width int) {
	e.Width = width
}

// SetError fills the box from an error value, attaching a hint for the
// failure classes users can act on.
func (e *ErrorBox) SetError(err error) {
	if err == nil {
		e.Message = ""
		e.Tip = ""
		return
	}

	e.Message = err.Error()
	switch {
	case errors.Is(err, api.ErrUnavailable):
		e.Tip = "The advisor backend may be asleep. Retry in a few seconds."
	case errors.Is(err, api.ErrRateLimited):
		e.Tip = "Too many requests. Wait a moment before retrying."
	case errors.Is(err, api.ErrNotConfigured):
		e.Tip = "Set the backend URL in ~/.vcscope/config.toml or VCSCOPE_API_URL."
	default:
		e.Tip = "Press r to retry or esc to go back."
	}
}

// Empty reports whether there is anything to show.
func (e *ErrorBox) Empty() bool {
	return e.Message == ""
}

// View renders the error box.
func (e *ErrorBox) View() string {
	if e.Empty() {
		return ""
	}

	width := e.Width - 4
	if width < 20 {
		width = 20
	}

	content := e.theme.ErrorTitle.Render(styles.StatusIndicators.Error+" "+e.Title) + "\n\n" +
		e.theme.ErrorMessage.Render(e.Message)
	if e.Tip != "" {
		content += "\n\n" + e.theme.ErrorTip.Render(e.Tip)
	}

	return e.theme.ErrorBox.Width(width).Render(content)
}
