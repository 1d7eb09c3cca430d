// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investors

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vcscope-tui/internal/investor"
)

// Update handles messages for the directory views.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case ListLoadedMsg:
		m.spin.Stop()
		m.loaded = true
		m.investors = msg.List
		m.fromCache = msg.FromCache
		m.loadErr = msg.Err
		m.cursor = 0

	case MentionsMsg:
		m.mentionsLoading = false
		if msg.Slug == m.selectedSlug {
			m.mentions = msg.Profiles
			m.mentionsErr = msg.Err
		}

	case ProfileMsg:
		m.profileLoading = false
		if msg.ID == m.profileID {
			m.profile = msg.Profile
			m.profileErr = msg.Err
		}

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press to the active page.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeDetail:
		return m.handleDetailKey(msg)
	case modeProfile:
		return m.handleProfileKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleListKey drives the list page.
func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		switch {
		case key.Matches(msg, m.keyMap.Back), key.Matches(msg, m.keyMap.Open):
			m.searching = false
			m.searchInput.Blur()
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.clampCursor()
			return cmd
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Search):
		m.searching = true
		m.searchInput.Focus()

	case key.Matches(msg, m.keyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keyMap.Down):
		if m.cursor < len(m.filtered())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keyMap.Stage):
		m.stageIdx = (m.stageIdx + 1) % len(m.stageOptions())
		m.clampCursor()

	case key.Matches(msg, m.keyMap.Sector):
		m.sectorIdx = (m.sectorIdx + 1) % len(m.sectorOptions())
		m.clampCursor()

	case key.Matches(msg, m.keyMap.Open):
		list := m.filtered()
		if m.cursor < len(list) {
			m.openDetail(list[m.cursor].Slug())
		}

	case key.Matches(msg, m.keyMap.Profile):
		m.mode = modeProfile
		m.profile = nil
		m.profileErr = nil
		m.idInput.Reset()
		m.idInput.Focus()

	case key.Matches(msg, m.keyMap.Reload):
		m.loaded = false
		return tea.Batch(m.spin.Start(), m.loadCmd())
	}
	return nil
}

// openDetail navigates to the detail page for a slug. Resolution happens at
// render time so a stale slug falls through to the not-found page.
func (m *Model) openDetail(slug string) {
	m.mode = modeDetail
	m.selectedSlug = slug
	m.mentions = nil
	m.mentionsErr = nil
	m.mentionsLoading = false
}

// handleDetailKey drives the detail page.
func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.mode = modeList

	case key.Matches(msg, m.keyMap.Mentions):
		inv, ok := investor.FindBySlug(m.investors, m.selectedSlug)
		if !ok || m.mentionsLoading {
			return nil
		}
		m.mentionsLoading = true
		m.mentionsErr = nil
		return m.mentionsCmd(inv.Name, m.selectedSlug)
	}
	return nil
}

// handleProfileKey drives the profile page.
func (m *Model) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.mode = modeList
		m.idInput.Blur()

	case key.Matches(msg, m.keyMap.Open):
		id, err := strconv.Atoi(strings.TrimSpace(m.idInput.Value()))
		if err != nil || id <= 0 {
			return nil
		}
		m.profileID = id
		m.profile = nil
		m.profileErr = nil
		m.profileLoading = true
		return m.profileCmd(id)

	default:
		var cmd tea.Cmd
		m.idInput, cmd = m.idInput.Update(msg)
		return cmd
	}
	return nil
}

// clampCursor keeps the selection inside the filtered list after the filter
// inputs change.
func (m *Model) clampCursor() {
	n := len(m.filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
