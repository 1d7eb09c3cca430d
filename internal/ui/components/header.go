// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the top banner for every view.
type Header struct {
	Title    string
	Subtitle string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the application brand.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "vcscope",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTitle updates the title and subtitle.
func (h *Header) SetTitle(title, subtitle string) {
	h.Title = title
	h.Subtitle = subtitle
}

// View renders the header.
func (h *Header) View() string {
	if h.Width <= 0 {
		return ""
	}

	brand := h.theme.HeaderBrand.Render("vcscope")
	title := h.theme.HeaderTitle.Render(h.Title)

	line := brand
	if h.Title != "" && h.Title != "vcscope" {
		line += h.theme.HeaderSubtitle.Render(" | ") + title
	}
	if h.Subtitle != "" {
		line += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	return lipgloss.NewStyle().
		Width(h.Width).
		Background(styles.SurfaceDim).
		Padding(0, 1).
		Render(line)
}
