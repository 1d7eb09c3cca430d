// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/chat"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// View renders the chat view.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 || !m.ready {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.viewport.View())

	if m.banner.Visible() {
		sections = append(sections, m.banner.View())
	}
	if !m.errBox.Empty() {
		sections = append(sections, m.errBox.View())
	}

	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderHint())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript renders all messages as chat bubbles.
func (m Model) renderTranscript() string {
	if len(m.conversation.Messages) == 0 {
		return m.theme.ThinkingText.Render("Connecting to the fundraising advisor...")
	}

	bubbleWidth := m.width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var sb strings.Builder
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg, bubbleWidth))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMessage renders one message bubble. Pending placeholders show the
// typing indicator instead of content.
func (m Model) renderMessage(msg *chat.Message, maxWidth int) string {
	name := m.theme.CardMeta.Render(msg.Role.DisplayName() + " " + msg.Timestamp.Format("15:04"))

	if msg.Pending {
		return name + "\n" + m.typing.View()
	}

	var bubble lipgloss.Style
	if msg.Role == chat.RoleUser {
		bubble = m.theme.UserBubble
	} else {
		bubble = m.theme.AdvisorBubble
	}

	body := bubble.MaxWidth(maxWidth).Render(msg.Content)
	if msg.Role == chat.RoleUser {
		return lipgloss.NewStyle().Width(m.width - 2).Align(lipgloss.Right).Render(name + "\n" + body)
	}
	return name + "\n" + body
}

// renderInput renders the input box.
func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

// renderHint renders the bottom hint line.
func (m Model) renderHint() string {
	if m.statusMsg != "" {
		return m.theme.ThinkingText.Render(m.statusMsg)
	}

	hints := []string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send"),
		m.theme.ShortcutKey.Render("C-s") + m.theme.ShortcutDesc.Render(" save"),
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back"),
	}
	if m.banner.Visible() {
		hints = append([]string{styles.RenderSuccess("profile complete")}, hints...)
	}
	return strings.Join(hints, "  ")
}
