// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// COMPLETION BANNER
// =============================================================================

// CompletionBanner announces that the intake conversation gathered a full
// company profile and analysis can start.
type CompletionBanner struct {
	Company *api.CompanyInfo
	Width   int
	theme   *styles.Theme
}

// NewCompletionBanner creates an empty banner.
func NewCompletionBanner(theme *styles.Theme) *CompletionBanner {
	return &CompletionBanner{Width: 80, theme: theme}
}

// SetWidth updates the banner width.
func (b *CompletionBanner) SetWidth(width int) {
	b.Width = width
}

// Show fills the banner with the collected profile.
func (b *CompletionBanner) Show(company *api.CompanyInfo) {
	b.Company = company
}

// Visible reports whether the banner has content.
func (b *CompletionBanner) Visible() bool {
	return b.Company != nil
}

// View renders the banner.
func (b *CompletionBanner) View() string {
	if b.Company == nil {
		return ""
	}

	width := b.Width - 4
	if width < 30 {
		width = 30
	}

	title := b.theme.CompletionTitle.Render(styles.StatusIndicators.Success + " Profile complete")
	body := b.theme.WelcomeInfo.Render(
		b.Company.CompanyName + " - press a to run the analysis pipeline")

	return b.theme.CompletionBanner.Width(width).Render(title + "\n" + body)
}
