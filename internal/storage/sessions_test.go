// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/chat"
	"github.com/jeranaias/vcscope-tui/internal/pipeline"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStoreWithDir(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	sess := &StoredSession{
		Completed: true,
		Company:   &api.CompanyInfo{CompanyName: "Acme", CurrentStage: "Seed"},
		Messages: []StoredMessage{
			{ID: "m1", Role: "assistant", Content: "Welcome!", Timestamp: time.Now()},
			{ID: "m2", Role: "user", Content: "We are a fintech startup", Timestamp: time.Now()},
		},
	}

	id, err := store.Save(sess)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.True(t, loaded.Completed)
	require.NotNil(t, loaded.Company)
	assert.Equal(t, "Acme", loaded.Company.CompanyName)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "We are a fintech startup", loaded.Messages[1].Content)

	// Summary derived from the first user message.
	assert.Equal(t, "We are a fintech startup", loaded.Summary)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("sess_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	olderID, err := store.Save(&StoredSession{
		CreatedAt: time.Now().Add(-time.Hour),
		Messages:  []StoredMessage{{ID: "a", Role: "user", Content: "first session"}},
	})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = store.Save(&StoredSession{
		Messages: []StoredMessage{{ID: "b", Role: "user", Content: "second session"}},
	})
	require.NoError(t, err)

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "second session", metas[0].Preview)
	assert.Equal(t, olderID, metas[1].ID)
}

func TestSessionStore_Search(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(&StoredSession{
		Messages: []StoredMessage{{ID: "a", Role: "user", Content: "Fintech payments platform"}},
	})
	require.NoError(t, err)
	_, err = store.Save(&StoredSession{
		Messages: []StoredMessage{{ID: "b", Role: "user", Content: "Climate hardware"}},
	})
	require.NoError(t, err)

	results, err := store.Search("fintech")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Preview, "Fintech")
}

func TestSessionStore_EnforcesLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxSessions = 2

	for i := 0; i < 4; i++ {
		_, err := store.Save(&StoredSession{
			Messages: []StoredMessage{{ID: "m", Role: "user", Content: "session"}},
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestSessionStore_Delete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(&StoredSession{})
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))
	assert.ErrorIs(t, store.Delete(id), ErrSessionNotFound)
}

func TestFromConversation_DropsPendingPlaceholder(t *testing.T) {
	c := chat.New()
	require.True(t, c.BeginStart())
	c.ApplyReply(&api.ChatReply{Response: "Hi!", State: api.Token("t0")})
	_, ok := c.BeginSubmit("hello")
	require.True(t, ok)
	// Turn still in flight: the placeholder must not be persisted.

	sess := FromConversation(c)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "assistant", sess.Messages[0].Role)
	assert.Equal(t, "user", sess.Messages[1].Role)
}

func TestExportMarkdown(t *testing.T) {
	sess := &StoredSession{
		ID:        "sess_x",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Messages: []StoredMessage{
			{Role: "assistant", Content: "Welcome!", Timestamp: time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC)},
			{Role: "user", Content: "Hello", Timestamp: time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC)},
		},
	}

	md := sess.ExportMarkdown()
	assert.Contains(t, md, "# Session sess_x")
	assert.Contains(t, md, "**Advisor**")
	assert.Contains(t, md, "**You**")
	assert.Contains(t, md, "Hello")
}

func TestRenderReport_PartialResults(t *testing.T) {
	results := pipeline.Results{
		Analysis: &api.Analysis{
			Website: api.WebsiteAnalysis{
				Industry: "Fintech",
				Summary:  "payments for anvils",
				Sectors:  []string{"Fintech"},
			},
			Market: api.MarketAnalysis{Text: "Big market.", Citations: []string{"https://src"}},
		},
		Queries: []string{"q1"},
		// Competitors and firms missing: their sections are omitted.
	}

	md := RenderReport("https://acme.io", results)
	assert.Contains(t, md, "# Fundraising analysis: https://acme.io")
	assert.Contains(t, md, "- Industry: Fintech")
	assert.Contains(t, md, "Big market.")
	assert.NotContains(t, md, "## Competitors")
	assert.NotContains(t, md, "## Matched VC firms")
}

func TestRenderReport_FullResults(t *testing.T) {
	results := pipeline.Results{
		Analysis: &api.Analysis{Website: api.WebsiteAnalysis{Summary: "s"}},
		Competitors: []api.Competitor{
			{Name: "Rival", Link: "https://rival.io"},
		},
		Firms: []api.Firm{
			{Name: "Sequoia", TicketSize: "$1-5M", SectorFocus: []string{"Fintech"}, StageFocus: []string{"Seed"}},
		},
	}

	md := RenderReport("", results)
	assert.Contains(t, md, "[Rival](https://rival.io)")
	assert.Contains(t, md, "| Sequoia | $1-5M |")
}
