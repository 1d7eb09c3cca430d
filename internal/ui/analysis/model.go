// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/pipeline"
	"github.com/jeranaias/vcscope-tui/internal/storage"
	"github.com/jeranaias/vcscope-tui/internal/ui/components"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReportSavedMsg reports the result of a report export.
type ReportSavedMsg struct {
	Path string
	Err  error
}

// focusZone selects which part of the view receives navigation keys.
type focusZone int

const (
	focusForm focusZone = iota
	focusResults
)

// =============================================================================
// ANALYSIS MODEL
// =============================================================================

// Model is the Bubble Tea model for the analysis pipeline view.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	client  *api.Client
	runner  *pipeline.Runner
	reports *storage.ReportStore

	urlInput   textinput.Model
	stageInput textinput.Model
	focus      focusZone
	formField  int // 0 = URL, 1 = funding stage

	viewport    viewport.Model
	spin        components.Spinner
	compareSpin components.InlineSpinner

	keyMap KeyMap

	// subject names the analyzed company in exported reports; the URL when
	// the run started from the form, the company name after a chat handoff.
	subject     string
	cursor      int // selected competitor
	saveReports bool
	statusMsg   string
	ready       bool

	markdown *glamour.TermRenderer
}

// New creates the analysis view. defaultStage pre-fills the funding stage
// field; reports may be nil, which disables exporting.
func New(theme *styles.Theme, client *api.Client, reports *storage.ReportStore, defaultStage string, saveReports bool) Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://yourstartup.com"
	urlInput.CharLimit = 300
	urlInput.Focus()

	stageInput := textinput.New()
	stageInput.Placeholder = defaultStage
	stageInput.CharLimit = 40

	spin := components.NewSpinner()
	spin.SetMessage("Running analysis")

	return Model{
		theme:       theme,
		client:      client,
		runner:      pipeline.NewRunner(client),
		reports:     reports,
		urlInput:    urlInput,
		stageInput:  stageInput,
		spin:        spin,
		compareSpin: components.NewInlineSpinner(),
		keyMap:      DefaultKeyMap(),
		saveReports: saveReports,
	}
}

// Runner exposes the pipeline runner, for tests and the root model.
func (m Model) Runner() *pipeline.Runner {
	return m.runner
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// StartCompany begins a run from a completed conversation profile. The root
// model calls this when the chat view hands off.
func (m Model) StartCompany(info api.CompanyInfo) (Model, tea.Cmd) {
	m.subject = info.CompanyName
	if m.subject == "" {
		m.subject = "company"
	}
	m.cursor = 0
	m.statusMsg = ""
	m.focus = focusResults
	return m, tea.Batch(m.spin.Start(), m.runner.StartFromCompanyInfo(info))
}

// =============================================================================
// COMMANDS
// =============================================================================

// saveReportCmd exports the current results as a Markdown report.
func (m Model) saveReportCmd() tea.Cmd {
	if m.reports == nil {
		return nil
	}
	store := m.reports
	subject := m.subject
	results := m.runner.Results()
	return func() tea.Msg {
		path, err := store.Save(subject, results)
		return ReportSavedMsg{Path: path, Err: err}
	}
}

// normalizeURL fills in the scheme the backend expects when the user types a
// bare host.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}
