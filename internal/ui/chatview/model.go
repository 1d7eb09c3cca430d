// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/chat"
	"github.com/jeranaias/vcscope-tui/internal/storage"
	"github.com/jeranaias/vcscope-tui/internal/ui/components"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg carries the result of a chat turn back into the update loop.
type ReplyMsg struct {
	Reply *api.ChatReply
	Err   error
}

// HandoffMsg is emitted exactly once, when the conversation completes with a
// full company profile. The root model switches to the analysis view.
type HandoffMsg struct {
	Company *api.CompanyInfo
}

// SavedMsg reports the result of a manual session save.
type SavedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the intake conversation view.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	client       *api.Client
	conversation *chat.Conversation
	store        *storage.SessionStore

	viewport viewport.Model
	input    textinput.Model
	typing   components.Spinner
	banner   *components.CompletionBanner
	errBox   *components.ErrorBox

	keyMap KeyMap

	requestTimeout time.Duration
	statusMsg      string
	ready          bool
}

// New creates the chat view.
func New(theme *styles.Theme, client *api.Client, store *storage.SessionStore) Model {
	input := textinput.New()
	input.Placeholder = "Tell the advisor about your startup..."
	input.CharLimit = 2000
	input.Focus()

	return Model{
		theme:          theme,
		client:         client,
		conversation:   chat.New(),
		store:          store,
		input:          input,
		typing:         components.NewTypingSpinner(),
		banner:         components.NewCompletionBanner(theme),
		errBox:         components.NewErrorBox(theme),
		keyMap:         DefaultKeyMap(),
		requestTimeout: 2 * time.Minute,
	}
}

// Conversation exposes the underlying conversation, for session persistence.
func (m Model) Conversation() *chat.Conversation {
	return m.conversation
}

// Init opens the conversation with the backend.
func (m Model) Init() tea.Cmd {
	if !m.conversation.BeginStart() {
		return nil
	}
	return tea.Batch(m.typing.Start(), m.startCmd())
}

// =============================================================================
// COMMANDS
// =============================================================================

// startCmd sends the opening turn: an empty message with a zero token.
func (m Model) startCmd() tea.Cmd {
	client := m.client
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := client.Chat(ctx, "", api.Token(""))
		return ReplyMsg{Reply: reply, Err: err}
	}
}

// sendCmd forwards one user turn. The outbound payload and token are
// captured here, in the update loop, so the goroutine shares no state with
// the model.
func (m Model) sendCmd(outbound string, token api.Token) tea.Cmd {
	client := m.client
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := client.Chat(ctx, outbound, token)
		return ReplyMsg{Reply: reply, Err: err}
	}
}

// saveCmd persists the transcript to the session store.
func (m Model) saveCmd() tea.Cmd {
	store := m.store
	sess := storage.FromConversation(m.conversation)
	return func() tea.Msg {
		id, err := store.Save(sess)
		return SavedMsg{ID: id, Err: err}
	}
}
