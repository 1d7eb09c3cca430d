// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBox(t *testing.T) *SecretBox {
	t.Helper()
	box, err := NewSecretBoxAt(filepath.Join(t.TempDir(), "master.key"))
	require.NoError(t, err)
	require.NoError(t, box.Init())
	return box
}

func TestFileKeyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "master.key")
	store := NewFileKeyStore(path)

	assert.False(t, store.Exists())

	key := []byte(strings.Repeat("k", KeySize))
	require.NoError(t, store.Store(key))
	assert.True(t, store.Exists())

	// SECURITY: key file must be owner-only.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, key, got)

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())
	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete())
}

func TestSecretBox_RoundTrip(t *testing.T) {
	box := newTestBox(t)

	enc, err := box.EncryptString("anon-directory-key")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, EncryptedPrefix))
	assert.NotContains(t, enc, "anon-directory-key")

	dec, err := box.DecryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, "anon-directory-key", dec)
}

func TestSecretBox_PlaintextPassesThrough(t *testing.T) {
	box := newTestBox(t)

	dec, err := box.DecryptString("plain-value")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", dec)

	// Double-encrypting is a no-op.
	enc, err := box.EncryptString("secret")
	require.NoError(t, err)
	again, err := box.EncryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, enc, again)
}

func TestSecretBox_Uninitialized(t *testing.T) {
	box, err := NewSecretBoxAt(filepath.Join(t.TempDir(), "master.key"))
	require.NoError(t, err)
	assert.False(t, box.Initialized())

	_, err = box.EncryptString("x")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = box.DecryptString(EncryptedPrefix + "Zm9v")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestSecretBox_ReopenReadsExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	box, err := NewSecretBoxAt(path)
	require.NoError(t, err)
	require.NoError(t, box.Init())

	enc, err := box.EncryptString("persisted")
	require.NoError(t, err)

	reopened, err := NewSecretBoxAt(path)
	require.NoError(t, err)
	require.True(t, reopened.Initialized())

	dec, err := reopened.DecryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, "persisted", dec)
}

func TestSecretBox_TamperedCiphertext(t *testing.T) {
	box := newTestBox(t)

	enc, err := box.EncryptString("secret")
	require.NoError(t, err)

	// Flip a character in the base64 payload.
	tampered := enc[:len(enc)-2] + "AA"
	_, err = box.DecryptString(tampered)
	assert.Error(t, err)

	_, err = box.DecryptString(EncryptedPrefix + "not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestSecretBox_PasswordDerivedKey(t *testing.T) {
	box, err := NewSecretBoxAt(filepath.Join(t.TempDir(), "master.key"))
	require.NoError(t, err)
	require.NoError(t, box.InitWithPassword("correct horse battery staple"))

	enc, err := box.EncryptString("secret")
	require.NoError(t, err)
	dec, err := box.DecryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, "secret", dec)
}

// A password-derived key must never reach disk: only the salt is persisted,
// and reading it back is useless without the password.
func TestSecretBox_PasswordKeyNeverWrittenToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	box, err := NewSecretBoxAt(path)
	require.NoError(t, err)
	require.NoError(t, box.InitWithPassword("correct horse battery staple"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "derived key written to the key file")
	salt, err := os.ReadFile(path + ".salt")
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)

	enc, err := box.EncryptString("secret")
	require.NoError(t, err)

	// Reopening without the password leaves the box locked.
	locked, err := NewSecretBoxAt(path)
	require.NoError(t, err)
	assert.False(t, locked.Initialized())
	assert.True(t, locked.PasswordProtected())
	_, err = locked.DecryptString(enc)
	assert.ErrorIs(t, err, ErrNotInitialized)

	// The right password re-derives the same key.
	require.NoError(t, locked.UnlockWithPassword("correct horse battery staple"))
	dec, err := locked.DecryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, "secret", dec)

	// The wrong password derives a different key and fails authentication.
	wrong, err := NewSecretBoxAt(path)
	require.NoError(t, err)
	require.NoError(t, wrong.UnlockWithPassword("hunter2"))
	_, err = wrong.DecryptString(enc)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}
