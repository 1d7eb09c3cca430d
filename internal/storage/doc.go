// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists vcscope data on disk.
//
// Two kinds of artifacts are stored, both under ~/.vcscope/:
//
//   - Chat sessions: one JSON file per intake conversation in sessions/,
//     written atomically, listed newest-first, capped at 100.
//   - Analysis reports: Markdown exports of completed pipeline runs in
//     reports/.
//
// All writes go through util.AtomicWriteFile so a crash can never leave a
// half-written file behind.
package storage
