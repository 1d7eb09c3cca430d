// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/pipeline"
)

// Update handles messages for the analysis view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Tab):
			m.cycleFocus()

		case key.Matches(msg, m.keyMap.Submit):
			if m.focus == focusForm {
				if cmd := m.submitForm(); cmd != nil {
					cmds = append(cmds, cmd)
				}
			} else if cmd := m.compareSelected(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case key.Matches(msg, m.keyMap.Compare) && m.focus == focusResults:
			if cmd := m.compareSelected(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case key.Matches(msg, m.keyMap.Save):
			if cmd := m.saveReportCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
			if m.focus == focusResults && len(m.runner.Results().Competitors) > 0 {
				m.moveCursor(key.Matches(msg, m.keyMap.Down))
				m.refreshResults()
			} else {
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}

		default:
			if m.focus == focusForm {
				cmds = append(cmds, m.updateFormInput(msg))
			} else {
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case pipeline.StageMsg:
		if next := m.runner.Apply(msg); next != nil {
			cmds = append(cmds, next)
		}
		status := m.runner.Status()
		if !status.IsRunning() {
			m.spin.Stop()
			if status.Kind == pipeline.KindSucceeded && m.saveReports {
				if cmd := m.saveReportCmd(); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
		m.refreshResults()

	case pipeline.ComparisonMsg:
		settled := m.runner.ApplyComparison(msg)
		if !m.anyComparing() {
			m.compareSpin.Stop()
		}
		m.refreshResults()
		if settled {
			m.scrollToComparison()
		}

	case ReportSavedMsg:
		if msg.Err != nil {
			m.statusMsg = "Report save failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Report saved to " + msg.Path
		}

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		m.compareSpin, cmd = m.compareSpin.Update(msg)
		cmds = append(cmds, cmd)
		if m.anyComparing() || m.runner.Status().IsRunning() {
			m.refreshResults()
		}
	}

	return m, tea.Batch(cmds...)
}

// submitForm starts a run from the URL form.
func (m *Model) submitForm() tea.Cmd {
	url := normalizeURL(m.urlInput.Value())
	if url == "" {
		return nil
	}

	stage := m.stageInput.Value()
	if stage == "" {
		stage = m.stageInput.Placeholder
	}

	m.subject = url
	m.cursor = 0
	m.statusMsg = ""
	m.focus = focusResults
	m.urlInput.Blur()
	m.stageInput.Blur()
	m.refreshResults()

	return tea.Batch(m.spin.Start(), m.runner.StartFromURL(url, stage))
}

// compareSelected dispatches a comparison for the competitor under the
// cursor. A second request for the same link while one is in flight is a
// no-op.
func (m *Model) compareSelected() tea.Cmd {
	competitors := m.runner.Results().Competitors
	if m.cursor >= len(competitors) {
		return nil
	}

	cmd := m.runner.Compare(competitors[m.cursor].Link)
	if cmd == nil {
		return nil
	}
	m.refreshResults()
	return tea.Batch(m.compareSpin.Start(), cmd)
}

// cycleFocus moves URL field -> stage field -> results -> URL field.
func (m *Model) cycleFocus() {
	switch {
	case m.focus == focusForm && m.formField == 0:
		m.formField = 1
		m.urlInput.Blur()
		m.stageInput.Focus()
	case m.focus == focusForm:
		m.focus = focusResults
		m.stageInput.Blur()
	default:
		m.focus = focusForm
		m.formField = 0
		m.urlInput.Focus()
	}
	m.refreshResults()
}

// updateFormInput routes a key to whichever form field has focus.
func (m *Model) updateFormInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.formField == 0 {
		m.urlInput, cmd = m.urlInput.Update(msg)
	} else {
		m.stageInput, cmd = m.stageInput.Update(msg)
	}
	return cmd
}

// moveCursor shifts the competitor selection, clamped to the list.
func (m *Model) moveCursor(down bool) {
	n := len(m.runner.Results().Competitors)
	if down && m.cursor < n-1 {
		m.cursor++
	} else if !down && m.cursor > 0 {
		m.cursor--
	}
}

// anyComparing reports whether any competitor link has a comparison in
// flight.
func (m *Model) anyComparing() bool {
	for _, c := range m.runner.Results().Competitors {
		if m.runner.IsComparing(c.Link) {
			return true
		}
	}
	return false
}

// handleResize recomputes the layout.
// Layout: form (3) + checklist (4) + status (1) + hint (1) above the results
// viewport.
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height

	viewportHeight := height - 9
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}

	m.urlInput.Width = width - 14
	m.stageInput.Width = width - 14

	wrap := width - 6
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.markdown = r
	}

	m.refreshResults()
}

// scrollToComparison scrolls the results viewport so the comparison section
// is at the top of the visible region.
func (m *Model) scrollToComparison() {
	if !m.ready {
		return
	}
	sections, idx := m.resultSections()
	if idx < 0 {
		return
	}
	offset := 0
	for _, s := range sections[:idx] {
		offset += lipgloss.Height(s) + 1 // sections are joined by a blank line
	}
	m.viewport.SetYOffset(offset)
}

// refreshResults re-renders the result sections into the viewport.
func (m *Model) refreshResults() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderResults())
}
