// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	require.NoError(t, AtomicWriteFile(path, data, 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0644))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("initial"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("updated"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(content))
}

func TestAtomicWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AtomicWriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"unicode not split", "héllo wörld", 8, "héllo..."},
		{"tiny max", "hello", 2, "he"},
		{"zero max", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.max))
		})
	}
}

func TestTruncateWidth_DoubleWidthCharacters(t *testing.T) {
	// CJK characters occupy two columns each.
	assert.Equal(t, 6, StringWidth("日本語"))
	assert.Equal(t, "日本語", TruncateWidth("日本語", 6))

	got := TruncateWidth("日本語テキスト", 8)
	assert.LessOrEqual(t, StringWidth(got), 8)
	assert.Contains(t, got, "...")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
}

// =============================================================================
// RANDOM ID TESTS
// =============================================================================

func TestRandomHex(t *testing.T) {
	a := RandomHex(8)
	b := RandomHex(8)

	assert.Len(t, a, 16)
	assert.Len(t, b, 16)
	assert.NotEqual(t, a, b)
}
