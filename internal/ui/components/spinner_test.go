// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerLifecycle(t *testing.T) {
	s := NewSpinner()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())

	cmd := s.Start()
	require.NotNil(t, cmd)
	assert.True(t, s.IsActive())
	assert.NotEmpty(t, s.View())

	s.Stop()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
}

func TestSpinnerMessageAndDetail(t *testing.T) {
	s := NewTypingSpinner()
	s.Start()
	s.SetDetail("forwarding your answer")

	view := s.View()
	assert.Contains(t, view, "Advisor is typing")
	assert.Contains(t, view, "forwarding your answer")
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner()
	assert.Equal(t, time.Duration(0), s.GetElapsed())

	s.Start()
	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, s.GetElapsed(), time.Duration(0))
}

func TestInlineSpinner(t *testing.T) {
	i := NewInlineSpinner()
	assert.Empty(t, i.View())

	i.Start()
	view := i.View()
	require.NotEmpty(t, view)
	// One of the ASCII frames.
	assert.True(t, strings.ContainsAny(view, `|/-\`))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "5s", formatElapsed(5*time.Second))
	assert.Equal(t, "1m 30s", formatElapsed(90*time.Second))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "0", toStr(0))
	assert.Equal(t, "-42", toStr(-42))
	assert.Equal(t, "1,234,567", fmtNumber(1234567))
	assert.Equal(t, "999", fmtNumber(999))
}
