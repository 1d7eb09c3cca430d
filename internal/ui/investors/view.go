// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investors

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/directory"
	"github.com/jeranaias/vcscope-tui/internal/investor"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
	"github.com/jeranaias/vcscope-tui/internal/util"
)

// View renders the active directory page.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 || !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case modeDetail:
		return m.renderDetail()
	case modeProfile:
		return m.renderProfile()
	default:
		return m.renderList()
	}
}

// =============================================================================
// LIST PAGE
// =============================================================================

func (m Model) renderList() string {
	var sections []string

	if !m.loaded {
		sections = append(sections, m.spin.View())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.loadErr != nil && !m.fromCache {
		sections = append(sections,
			styles.RenderError("Could not load the investor directory: "+m.loadErr.Error()),
			m.theme.ThinkingText.Render("r retries, esc goes back"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.fromCache {
		sections = append(sections, styles.RenderWarning("Directory unreachable, showing your last synced copy"))
	}

	sections = append(sections, m.renderFilterLine())
	sections = append(sections, m.renderRows())
	sections = append(sections, m.renderListHint())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFilterLine() string {
	var search string
	if m.searching {
		search = m.theme.InputLabel.Render("Search ") + m.searchInput.View()
	} else if m.searchInput.Value() != "" {
		search = m.theme.InputLabel.Render("Search ") + m.searchInput.Value()
	} else {
		search = m.theme.ThinkingText.Render("/ to search")
	}

	stage := m.theme.Badge.Render("stage: " + m.stageOptions()[m.stageIdx])
	sector := m.theme.Badge.Render("sector: " + m.sectorOptions()[m.sectorIdx])
	count := m.theme.CardMeta.Render(util.IntToString(len(m.filtered())) + " investors")

	return search + "  " + stage + " " + sector + "  " + count
}

func (m Model) renderRows() string {
	list := m.filtered()
	if len(list) == 0 {
		return m.theme.ThinkingText.Render("No investors match the current filters.")
	}

	visible := m.height - 6
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(list) {
		end = len(list)
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		inv := list[i]
		marker := "  "
		style := m.theme.ListItem
		if i == m.cursor {
			marker = "> "
			style = m.theme.ListSelected
		}

		meta := strings.Join(inv.StageFocus, ", ")
		if inv.TicketSize != "" {
			meta += "  " + inv.TicketSize
		}

		line := marker + style.Render(util.PadRight(util.TruncateWidth(inv.Name, 30), 32)) +
			m.theme.CardMeta.Render(util.TruncateWidth(meta, m.width-40))
		if i > start {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func (m Model) renderListHint() string {
	hints := []string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" open"),
		m.theme.ShortcutKey.Render("/") + m.theme.ShortcutDesc.Render(" search"),
		m.theme.ShortcutKey.Render("s/x") + m.theme.ShortcutDesc.Render(" stage/sector"),
		m.theme.ShortcutKey.Render("p") + m.theme.ShortcutDesc.Render(" profile"),
		m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" reload"),
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back"),
	}
	return strings.Join(hints, "  ")
}

// =============================================================================
// DETAIL PAGE
// =============================================================================

func (m Model) renderDetail() string {
	inv, ok := investor.FindBySlug(m.investors, m.selectedSlug)
	if !ok {
		return m.renderNotFound("No investor matches \"" + m.selectedSlug + "\".")
	}

	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render(inv.Name) + "\n")
	if inv.Description != "" {
		sb.WriteString(m.theme.CardBody.Render(inv.Description) + "\n")
	}
	if len(inv.StageFocus) > 0 {
		sb.WriteString(m.theme.CardMeta.Render("Stages:  ") + strings.Join(inv.StageFocus, ", ") + "\n")
	}
	if len(inv.SectorFocus) > 0 {
		sb.WriteString(m.theme.CardMeta.Render("Sectors: ") + strings.Join(inv.SectorFocus, ", ") + "\n")
	}
	if inv.TicketSize != "" {
		sb.WriteString(m.theme.CardMeta.Render("Ticket:  ") + inv.TicketSize + "\n")
	}
	if inv.TotalPortfolio != "" {
		sb.WriteString(m.theme.CardMeta.Render("Portfolio: ") + inv.TotalPortfolio + "\n")
	}
	if inv.Email != "" {
		sb.WriteString(m.theme.CardMeta.Render("Email:   ") + inv.Email + "\n")
	}
	if inv.Website != "" {
		sb.WriteString(m.theme.CardMeta.Render("Website: ") + styles.RenderLink(inv.Website) + "\n")
	}

	card := m.theme.CardBox.Width(m.width - 4).Render(strings.TrimRight(sb.String(), "\n"))

	sections := []string{card, m.renderMentions()}
	sections = append(sections, m.theme.ShortcutKey.Render("f")+m.theme.ShortcutDesc.Render(" find mentions")+
		"  "+m.theme.ShortcutKey.Render("esc")+m.theme.ShortcutDesc.Render(" back to list"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderMentions() string {
	switch {
	case m.mentionsLoading:
		return m.theme.ThinkingText.Render("Searching the web for mentions...")
	case m.mentionsErr != nil:
		return styles.RenderError("Mention search failed: " + m.mentionsErr.Error())
	case m.mentions == nil:
		return ""
	case len(m.mentions) == 0:
		return m.theme.ThinkingText.Render("No web mentions found.")
	}

	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Web mentions"))
	for _, p := range m.mentions {
		sb.WriteString("\n" + styles.RenderLink(p.Link))
		if p.Snippet != "" {
			sb.WriteString("\n  " + m.theme.CardBody.Render(util.TruncateWidth(p.Snippet, m.width-6)))
		}
	}
	return sb.String()
}

// =============================================================================
// PROFILE PAGE
// =============================================================================

func (m Model) renderProfile() string {
	prompt := m.theme.InputLabel.Render("Profile id ") + m.idInput.View()

	var body string
	switch {
	case m.profileLoading:
		body = m.theme.ThinkingText.Render("Loading profile...")
	case errors.Is(m.profileErr, directory.ErrProfileNotFound):
		return m.renderNotFound("No profile with id " + util.IntToString(m.profileID) + ".")
	case m.profileErr != nil:
		body = styles.RenderError("Profile load failed: " + m.profileErr.Error())
	case m.profile != nil:
		body = m.renderProfileCard(m.profile)
	}

	hint := m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" load") +
		"  " + m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back to list")

	sections := []string{prompt}
	if body != "" {
		sections = append(sections, body)
	}
	sections = append(sections, hint)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderProfileCard(p *directory.Profile) string {
	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render(p.Name))
	if p.Headline != "" {
		sb.WriteString("\n" + m.theme.CardMeta.Render(p.Headline))
	}
	if p.About != "" {
		sb.WriteString("\n\n" + m.theme.CardBody.Render(p.About))
	}
	if p.Email != "" {
		sb.WriteString("\n" + m.theme.CardMeta.Render("Email:    ") + p.Email)
	}
	if p.LinkedInURL != "" {
		sb.WriteString("\n" + m.theme.CardMeta.Render("LinkedIn: ") + styles.RenderLink(p.LinkedInURL))
	}
	return m.theme.CardBox.Width(m.width - 4).Render(sb.String())
}

// =============================================================================
// NOT FOUND
// =============================================================================

// renderNotFound is the dedicated page for a slug or id with no record.
func (m Model) renderNotFound(detail string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ErrorTitle.Render("Not found"),
		m.theme.ErrorMessage.Render(detail),
		m.theme.ShortcutKey.Render("esc")+m.theme.ShortcutDesc.Render(" back to list"),
	)
}
