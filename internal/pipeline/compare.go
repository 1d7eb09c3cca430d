// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/vcscope-tui/internal/api"
)

// =============================================================================
// COMPARISON SUB-FLOW
// =============================================================================

// ComparisonMsg reports one settled comparison request.
type ComparisonMsg struct {
	Run        uuid.UUID
	Link       string
	Comparison *api.Comparison
	Err        error
}

// Comparison returns the single visible comparison result, nil when none.
func (r *Runner) Comparison() *api.Comparison { return r.comparison }

// CompareError returns the most recent comparison failure, nil when the
// last comparison succeeded or none ran.
func (r *Runner) CompareError() error { return r.compareErr }

// IsComparing reports whether a comparison for the given competitor link is
// in flight. Each link tracks its own spinner independently.
func (r *Runner) IsComparing(link string) bool { return r.comparing[link] }

// Compare dispatches a pairwise comparison between the analyzed company and
// the competitor behind link. Returns nil when one is already in flight for
// that link; there is no limit across distinct links.
func (r *Runner) Compare(link string) tea.Cmd {
	if r.comparing[link] {
		return nil
	}
	r.comparing[link] = true
	r.compareErr = nil

	run := r.run
	client := r.client
	url1 := r.src.url

	return func() tea.Msg {
		cmp, err := client.Compare(context.Background(), url1, link)
		return ComparisonMsg{Run: run, Link: link, Comparison: cmp, Err: err}
	}
}

// ApplyComparison settles a comparison. The link's in-flight entry is
// cleared whatever the outcome. Success replaces the single shared result
// slot; failure records the error and leaves any previous result untouched.
// Messages from a superseded run are dropped entirely, since their slot was
// already cleared by the newer run. Returns true when the message produced
// a new visible result.
func (r *Runner) ApplyComparison(msg ComparisonMsg) bool {
	if msg.Run != r.run {
		return false
	}
	delete(r.comparing, msg.Link)

	if msg.Err != nil {
		r.compareErr = msg.Err
		return false
	}
	r.comparison = msg.Comparison
	return true
}
