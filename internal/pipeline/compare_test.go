// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedRunner(t *testing.T, stub *stubBackend) *Runner {
	t.Helper()
	r := newTestRunner(t, stub)
	drive(t, r, r.StartFromURL("https://acme.io", "Seed"))
	require.Equal(t, KindSucceeded, r.Status().Kind)
	return r
}

func TestCompare_SuccessReplacesSharedSlot(t *testing.T) {
	r := completedRunner(t, &stubBackend{})

	cmd := r.Compare("https://rival.io")
	require.NotNil(t, cmd)
	assert.True(t, r.IsComparing("https://rival.io"))

	msg := cmd().(ComparisonMsg)
	applied := r.ApplyComparison(msg)

	assert.True(t, applied)
	assert.False(t, r.IsComparing("https://rival.io"))
	require.NotNil(t, r.Comparison())
	assert.Equal(t, "cheaper", r.Comparison().Summary)
	assert.NoError(t, r.CompareError())
}

func TestCompare_DuplicateLinkRefusedWhileInFlight(t *testing.T) {
	r := completedRunner(t, &stubBackend{})

	first := r.Compare("https://rival.io")
	require.NotNil(t, first)
	assert.Nil(t, r.Compare("https://rival.io"))

	// A different link fires independently.
	other := r.Compare("https://other.io")
	assert.NotNil(t, other)
	assert.True(t, r.IsComparing("https://other.io"))
}

func TestCompare_FailureKeepsPreviousResult(t *testing.T) {
	stub := &stubBackend{}
	r := completedRunner(t, stub)

	// First comparison succeeds.
	cmd := r.Compare("https://rival.io")
	r.ApplyComparison(cmd().(ComparisonMsg))
	require.NotNil(t, r.Comparison())

	// Second comparison fails: previous result untouched, error surfaced,
	// in-flight entry cleared.
	stub.failAt = map[string]int{"/compare": http.StatusInternalServerError}
	cmd = r.Compare("https://other.io")
	applied := r.ApplyComparison(cmd().(ComparisonMsg))

	assert.False(t, applied)
	assert.Error(t, r.CompareError())
	assert.False(t, r.IsComparing("https://other.io"))
	require.NotNil(t, r.Comparison())
	assert.Equal(t, "cheaper", r.Comparison().Summary)
}

func TestCompare_StaleRunDiscarded(t *testing.T) {
	r := completedRunner(t, &stubBackend{})

	cmd := r.Compare("https://rival.io")
	msg := cmd().(ComparisonMsg)

	// Pipeline re-run clears the comparison slot and changes the run ID.
	drive(t, r, r.StartFromURL("https://next.io", "Seed"))

	applied := r.ApplyComparison(msg)
	assert.False(t, applied)
	assert.Nil(t, r.Comparison())
}
