// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/vcscope-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a value as encrypted (format: ENC:base64(nonce|ciphertext|tag))
const EncryptedPrefix = "ENC:"

// NonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits)
const NonceSize = 12

// KeySize is the size of the AES-256 key (32 bytes / 256 bits)
const KeySize = 32

// SaltSize is the size of the salt for key derivation (32 bytes)
const SaltSize = 32

// PBKDF2Iterations is the number of iterations for PBKDF2 key derivation.
// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotInitialized indicates the key store has no key yet
	ErrNotInitialized = errors.New("key store not initialized: run 'vcscope-setup'")
	// ErrInvalidCiphertext indicates the ciphertext format is invalid
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates decryption failed (wrong key or tampered data)
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// ZeroBytes zeros sensitive byte slices.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// FILE-BASED KEYSTORE
// =============================================================================

// FileKeyStore stores the master key in a file with restricted permissions.
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a key store at the given path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// DefaultKeyPath returns the default master key location.
func DefaultKeyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".vcscope", "master.key"), nil
}

// Store saves the key with restricted permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *FileKeyStore) Store(key []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}

	return nil
}

// Retrieve reads the key from the file.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return key, nil
}

// Delete removes the key file.
func (f *FileKeyStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

// Exists checks if the key file exists.
func (f *FileKeyStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// =============================================================================
// SECRET BOX
// =============================================================================

// SecretBox encrypts and decrypts small secrets (the directory API key)
// with AES-256-GCM using a master key held in a FileKeyStore.
type SecretBox struct {
	store  *FileKeyStore
	salt   *FileKeyStore
	cipher cipher.AEAD
}

// NewSecretBox opens the secret box at the default key path. If no master
// key exists yet, the box is returned uninitialized; call Init first.
func NewSecretBox() (*SecretBox, error) {
	path, err := DefaultKeyPath()
	if err != nil {
		return nil, err
	}
	return NewSecretBoxAt(path)
}

// NewSecretBoxAt opens the secret box with a master key at a specific path.
func NewSecretBoxAt(path string) (*SecretBox, error) {
	sb := &SecretBox{
		store: NewFileKeyStore(path),
		salt:  NewFileKeyStore(path + ".salt"),
	}
	if sb.store.Exists() {
		if err := sb.loadKey(); err != nil {
			return nil, err
		}
	}
	return sb, nil
}

// Init generates a fresh random master key and stores it. Existing
// encrypted values become unreadable, so this is only done during setup.
func (s *SecretBox) Init() error {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer ZeroBytes(key)

	if err := s.store.Store(key); err != nil {
		return err
	}
	return s.setKey(key)
}

// InitWithPassword derives the master key from a password. Only the random
// salt is persisted, next to the key path; the key itself is re-derived from
// the password on every unlock and never written to disk.
func (s *SecretBox) InitWithPassword(password string) error {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := s.salt.Store(salt); err != nil {
		return err
	}

	key := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
	defer ZeroBytes(key)
	return s.setKey(key)
}

// PasswordProtected reports whether the box needs a password to unlock: a
// salt file exists but no stored master key.
func (s *SecretBox) PasswordProtected() bool {
	return s.salt.Exists() && !s.store.Exists()
}

// UnlockWithPassword re-derives the master key from the password and the
// stored salt. A wrong password is not detected here; decrypting with the
// mis-derived key fails with ErrDecryptionFailed instead.
func (s *SecretBox) UnlockWithPassword(password string) error {
	salt, err := s.salt.Retrieve()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	}

	key := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
	defer ZeroBytes(key)
	return s.setKey(key)
}

// Initialized reports whether a usable master key is loaded.
func (s *SecretBox) Initialized() bool {
	return s.cipher != nil
}

func (s *SecretBox) loadKey() error {
	key, err := s.store.Retrieve()
	if err != nil {
		return err
	}
	defer ZeroBytes(key)

	if len(key) != KeySize {
		return fmt.Errorf("master key has wrong size: got %d, want %d", len(key), KeySize)
	}
	return s.setKey(key)
}

func (s *SecretBox) setKey(key []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}
	s.cipher = aead
	return nil
}

// EncryptString encrypts a value into the ENC:base64(nonce|ciphertext|tag)
// format used in config files. Encrypting an already encrypted value is a
// no-op.
func (s *SecretBox) EncryptString(plaintext string) (string, error) {
	if s.cipher == nil {
		return "", ErrNotInitialized
	}
	if strings.HasPrefix(plaintext, EncryptedPrefix) {
		return plaintext, nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.cipher.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString decrypts an ENC:-prefixed value. Values without the prefix
// are returned unchanged so plaintext configs keep working.
func (s *SecretBox) DecryptString(value string) (string, error) {
	if !strings.HasPrefix(value, EncryptedPrefix) {
		return value, nil
	}
	if s.cipher == nil {
		return "", ErrNotInitialized
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(raw) < NonceSize {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := raw[:NonceSize], raw[NonceSize:]
	plaintext, err := s.cipher.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
