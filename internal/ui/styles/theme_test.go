// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	require.NotNil(t, theme)

	// Spot-check that styles are initialized, not zero values.
	assert.True(t, theme.HeaderTitle.GetBold())
	assert.True(t, theme.StageDone.GetBold())
	assert.True(t, theme.LinkStyle.GetUnderline())
}

func TestLayoutModes(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(50, 24)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())

	theme.SetSize(80, 24)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())

	theme.SetSize(140, 40)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
	assert.Equal(t, 140, theme.Width)
	assert.Equal(t, 40, theme.Height)
}

func TestStatusRenderers(t *testing.T) {
	assert.Contains(t, RenderSuccess("saved"), "[OK]")
	assert.Contains(t, RenderError("failed"), "[X]")
	assert.Contains(t, RenderWarning("careful"), "[!]")
	assert.Contains(t, RenderInfo("note"), "[i]")
	assert.Contains(t, RenderLink("example.com"), "example.com")
}
