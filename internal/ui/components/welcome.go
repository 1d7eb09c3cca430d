// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen component.
type Welcome struct {
	version    string
	backendURL string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetBackendURL sets the advisor backend shown in the system line.
func (w *Welcome) SetBackendURL(url string) {
	w.backendURL = url
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen, centered in the available space.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 62
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	content := w.renderLogo()
	content += "\n\n" + w.theme.WelcomeVersion.Render("v"+w.version)
	if w.backendURL != "" {
		content += "\n" + w.theme.WelcomeInfo.Render("Backend: "+w.backendURL)
	}
	content += "\n\n" + w.renderMenu()
	content += "\n\n" + w.theme.WelcomePressKey.Render("Press a key to begin")

	box := w.theme.WelcomeBox.
		Width(boxWidth).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (w Welcome) renderLogo() string {
	logo := "" +
		" _  _  ___  ___  ___ ___  _ __  ___ \n" +
		"| || |/ __|/ __|/ __/ _ \\| '_ \\/ _ \\\n" +
		" \\  /| (__ \\__ \\ (_| (_) | |_) \\___/\n" +
		"  \\/  \\___||___/\\___\\___/| .__/\\___|\n" +
		"                         |_|        "
	return w.theme.WelcomeLogo.Render(logo)
}

func (w Welcome) renderMenu() string {
	key := w.theme.WelcomeKey
	info := w.theme.WelcomeInfo

	return key.Render("c") + info.Render("  chat with the fundraising advisor") + "\n" +
		key.Render("a") + info.Render("  analyze a company website") + "\n" +
		key.Render("i") + info.Render("  browse the investor directory") + "\n" +
		key.Render("q") + info.Render("  quit")
}
