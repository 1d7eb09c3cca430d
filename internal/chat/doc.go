// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversational intake state machine.
//
// A Conversation tracks the opaque token issued by the chat backend, the
// ordered message transcript, and the phase of the dialogue:
//
//	Idle → AwaitingFirstResponse → Chatting → Complete
//
// The package performs no I/O. Callers drive it in three steps per turn:
// Begin* marks the turn in flight and yields the outbound payload,
// ApplyReply or ApplyError settles it. The pending assistant placeholder
// appended by BeginSubmit is guaranteed to be resolved or removed by
// whichever settle call arrives.
package chat
