// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat sessions and analysis reports under the
// user's vcscope directory.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/chat"
	"github.com/jeranaias/vcscope-tui/internal/util"
)

// =============================================================================
// STORED SESSION TYPE
// =============================================================================

// StoredSession is a persisted intake conversation.
type StoredSession struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Completed records whether the intake reached the analysis handoff.
	Completed bool             `json:"completed"`
	Company   *api.CompanyInfo `json:"company_info,omitempty"`

	Messages []StoredMessage `json:"messages"`
}

// StoredMessage is a persisted transcript entry. Pending placeholders are
// never persisted; a session is saved only with settled messages.
type StoredMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionMeta is the listing view of a stored session.
type SessionMeta struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Completed    bool      `json:"completed"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// FromConversation converts a live conversation into its stored form,
// dropping any unsettled placeholder.
func FromConversation(c *chat.Conversation) *StoredSession {
	s := &StoredSession{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Completed: c.IsComplete(),
		Company:   c.Company(),
	}
	for _, m := range c.Messages {
		if m.Pending {
			continue
		}
		s.Messages = append(s.Messages, StoredMessage{
			ID:        m.ID,
			Role:      m.Role.String(),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return s
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore handles session persistence, one JSON file per session.
type SessionStore struct {
	// BaseDir is the directory for stored sessions.
	// Default: ~/.vcscope/sessions/
	BaseDir string

	// MaxSessions limits stored sessions (0 = unlimited).
	MaxSessions int
}

// NewSessionStore creates a store rooted in the user's home directory.
func NewSessionStore() (*SessionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSessionStoreWithDir(filepath.Join(homeDir, ".vcscope", "sessions"))
}

// NewSessionStoreWithDir creates a store with a custom directory.
func NewSessionStoreWithDir(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &SessionStore{
		BaseDir:     baseDir,
		MaxSessions: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a session and returns its ID.
func (s *SessionStore) Save(sess *StoredSession) (string, error) {
	if sess.ID == "" {
		sess.ID = "sess_" + util.RandomHex(8)
	}
	if sess.Summary == "" {
		sess.Summary = generateSummary(sess)
	}

	sess.UpdatedAt = time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.UpdatedAt
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.filePath(sess.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxSessions > 0 {
		s.enforceLimit()
	}
	return sess.ID, nil
}

// generateSummary derives a summary from the first user message.
func generateSummary(sess *StoredSession) string {
	for _, msg := range sess.Messages {
		if msg.Role == "user" && msg.Content != "" {
			content := strings.ReplaceAll(msg.Content, "\n", " ")
			content = strings.ReplaceAll(content, "\r", "")
			return util.TruncateRunes(content, 50)
		}
	}
	if sess.Company != nil && sess.Company.CompanyName != "" {
		return sess.Company.CompanyName
	}
	return "New session"
}

// enforceLimit removes the oldest sessions when over the cap.
func (s *SessionStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxSessions {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxSessions
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD / LIST OPERATIONS
// =============================================================================

// Load retrieves a session by ID.
func (s *SessionStore) Load(id string) (*StoredSession, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess StoredSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// List returns all saved sessions, most recent first.
func (s *SessionStore) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMeta{}, nil
		}
		return nil, err
	}

	var metas []SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		sess, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // skip corrupted files
		}

		metas = append(metas, SessionMeta{
			ID:           sess.ID,
			Summary:      sess.Summary,
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
			Completed:    sess.Completed,
			MessageCount: len(sess.Messages),
			Preview:      sess.preview(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search finds sessions whose summary or preview contains the query,
// case-insensitively.
func (s *SessionStore) Search(query string) ([]SessionMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []SessionMeta
	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Summary), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}
	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a session by ID.
func (s *SessionStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved sessions.
func (s *SessionStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// filePath returns the file path for a session ID.
func (s *SessionStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// preview returns the first user message, truncated.
func (sess *StoredSession) preview() string {
	for _, msg := range sess.Messages {
		if msg.Role == "user" && msg.Content != "" {
			return util.TruncateRunes(msg.Content, 80)
		}
	}
	return ""
}

// ExportMarkdown renders the session transcript as Markdown.
func (sess *StoredSession) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Session " + sess.ID + "\n\n")
	sb.WriteString("Created: " + sess.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range sess.Messages {
		role := "**You**"
		if msg.Role == "assistant" {
			role = "**Advisor**"
		}
		sb.WriteString(role + " (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// StoreError represents a storage-related error. It can be compared using
// errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
