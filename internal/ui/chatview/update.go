// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Submit):
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case key.Matches(msg, m.keyMap.Save):
			cmds = append(cmds, m.saveCmd())
		case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ReplyMsg:
		if cmd := m.applyReply(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case SavedMsg:
		if msg.Err != nil {
			m.statusMsg = "Save failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Session saved (" + msg.ID + ")"
		}

	default:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit sends the current input as a turn, when the conversation accepts it.
func (m *Model) submit() tea.Cmd {
	outbound, ok := m.conversation.BeginSubmit(m.input.Value())
	if !ok {
		return nil
	}

	m.input.Reset()
	m.errBox.SetError(nil)
	m.statusMsg = ""
	m.refreshTranscript()

	return tea.Batch(m.typing.Start(), m.sendCmd(outbound, m.conversation.Token()))
}

// applyReply settles the in-flight turn and emits the handoff when the
// profile is complete.
func (m *Model) applyReply(msg ReplyMsg) tea.Cmd {
	m.typing.Stop()

	if msg.Err != nil {
		m.conversation.ApplyError()
		m.errBox.SetError(msg.Err)
		m.refreshTranscript()
		return nil
	}

	handoff := m.conversation.ApplyReply(msg.Reply)
	m.refreshTranscript()

	if handoff != nil {
		m.banner.Show(handoff)
		company := handoff
		return func() tea.Msg {
			return HandoffMsg{Company: company}
		}
	}
	return nil
}

// handleResize recomputes the layout.
// Layout: transcript (viewport) + optional banner/error + input (3) + hint (1)
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height

	viewportHeight := height - 5
	if m.banner.Visible() {
		viewportHeight -= 3
	}
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

	m.input.Width = width - 6
	m.banner.SetWidth(width)
	m.errBox.SetWidth(width)
	m.refreshTranscript()
}

// refreshTranscript re-renders the conversation into the viewport and keeps
// it pinned to the latest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
