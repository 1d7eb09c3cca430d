// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jeranaias/vcscope-tui/internal/api"
)

// =============================================================================
// PHASE
// =============================================================================

// Phase is the conversation lifecycle state.
type Phase int

const (
	// PhaseIdle means no turn has been sent yet.
	PhaseIdle Phase = iota
	// PhaseAwaitingFirstResponse means the opening turn is in flight.
	PhaseAwaitingFirstResponse
	// PhaseChatting means the dialogue is under way.
	PhaseChatting
	// PhaseComplete means the backend signalled completion and company info
	// was handed off. The chat remains usable in this phase.
	PhaseComplete
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingFirstResponse:
		return "awaiting-first-response"
	case PhaseChatting:
		return "chatting"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// companyInfoDelimiter separates accumulated company info from the user's
// text in the outbound message. Fixed by the backend contract.
const companyInfoDelimiter = "|||"

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the intake dialogue state machine. It owns the transcript,
// the opaque backend token, and the accumulated company info. It performs no
// network I/O itself.
type Conversation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Messages  []*Message `json:"messages"`

	phase    Phase
	token    api.Token
	company  *api.CompanyInfo
	inFlight bool

	// pending is the unresolved assistant placeholder for the in-flight
	// turn, nil between turns.
	pending *Message

	// handedOff flips when completion fires; the trigger is one-shot.
	handedOff bool
}

// New creates an empty conversation in PhaseIdle.
func New() *Conversation {
	return &Conversation{
		ID:        "conv_" + generateID()[len("msg_"):],
		CreatedAt: time.Now(),
	}
}

// Phase returns the current lifecycle phase.
func (c *Conversation) Phase() Phase { return c.phase }

// Token returns the opaque conversation token as last issued.
func (c *Conversation) Token() api.Token { return c.token }

// Company returns the accumulated company info, nil until the backend has
// produced any.
func (c *Conversation) Company() *api.CompanyInfo { return c.company }

// InFlight reports whether a turn is awaiting its response.
func (c *Conversation) InFlight() bool { return c.inFlight }

// IsComplete reports whether the completion handoff has fired.
func (c *Conversation) IsComplete() bool { return c.handedOff }

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// BeginStart opens the conversation: an empty-message turn with a zero
// token. It returns false unless the conversation is idle.
func (c *Conversation) BeginStart() bool {
	if c.phase != PhaseIdle || c.inFlight {
		return false
	}
	c.phase = PhaseAwaitingFirstResponse
	c.inFlight = true
	return true
}

// BeginSubmit records a user turn and returns the outbound message payload.
// It returns ok=false, and changes nothing, when the text is empty or
// whitespace, a turn is already in flight, or the conversation has not been
// started. When company info has accumulated, the outbound payload is the
// user's text, the fixed delimiter, then the info as JSON; the backend reads
// the answer from the first segment and parses the second.
func (c *Conversation) BeginSubmit(text string) (outbound string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || c.inFlight {
		return "", false
	}
	if c.phase != PhaseChatting && c.phase != PhaseComplete {
		return "", false
	}

	c.Messages = append(c.Messages, NewUserMessage(trimmed))
	c.pending = NewPendingMessage()
	c.Messages = append(c.Messages, c.pending)
	c.inFlight = true

	outbound = trimmed
	if c.company != nil {
		if encoded, err := json.Marshal(c.company); err == nil {
			outbound = trimmed + companyInfoDelimiter + string(encoded)
		}
	}
	return outbound, true
}

// ApplyReply settles the in-flight turn with the backend's response. The
// returned company info is non-nil exactly once: on the reply that completes
// the conversation. That is the handoff into the analysis pipeline.
func (c *Conversation) ApplyReply(reply *api.ChatReply) (handoff *api.CompanyInfo) {
	if !c.inFlight {
		return nil
	}
	c.inFlight = false

	if c.pending != nil {
		c.pending.Resolve(reply.Response)
		c.pending = nil
	} else {
		// Opening turn: the first assistant message is appended rather
		// than resolved, since BeginStart adds no placeholder.
		msg := NewPendingMessage()
		msg.Resolve(reply.Response)
		c.Messages = append(c.Messages, msg)
	}

	// Token is stored verbatim, never inspected.
	c.token = reply.State
	if reply.Company != nil {
		c.company = reply.Company
	}

	switch c.phase {
	case PhaseAwaitingFirstResponse:
		c.phase = PhaseChatting
	case PhaseChatting, PhaseComplete:
		// stays
	}

	if reply.IsComplete && reply.Company != nil && !c.handedOff {
		c.handedOff = true
		c.phase = PhaseComplete
		return reply.Company
	}
	return nil
}

// ApplyError settles the in-flight turn after a failure. The pending
// placeholder is removed, the token and transcript are otherwise preserved
// so the user can retry the turn. The opening turn drops back to idle so
// Start can be attempted again.
func (c *Conversation) ApplyError() {
	if !c.inFlight {
		return
	}
	c.inFlight = false

	if c.pending != nil {
		c.removeMessage(c.pending.ID)
		c.pending = nil
	}
	if c.phase == PhaseAwaitingFirstResponse {
		c.phase = PhaseIdle
	}
}

// removeMessage deletes a message from the transcript by ID.
func (c *Conversation) removeMessage(id string) {
	for i, m := range c.Messages {
		if m.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return
		}
	}
}

// =============================================================================
// TRANSCRIPT ACCESS
// =============================================================================

// LastMessage returns the newest message, or nil for an empty transcript.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// HasPending reports whether an unresolved placeholder is in the transcript.
func (c *Conversation) HasPending() bool {
	return c.pending != nil
}

// MessageCount returns the number of transcript entries.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}
