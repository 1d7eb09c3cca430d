// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/directory"
	"github.com/jeranaias/vcscope-tui/internal/investor"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

func stubDirectory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/investors":
			json.NewEncoder(w).Encode([]investor.Investor{
				{
					Name:        "Accel",
					Description: "Early and growth-stage firm",
					StageFocus:  []string{"Seed", "Series A"},
					SectorFocus: []string{"SaaS"},
					TicketSize:  "$1-10M",
				},
				{
					Name:        "Sequoia Capital",
					Description: "Global venture firm",
					StageFocus:  []string{"Seed", "Growth"},
					SectorFocus: []string{"Fintech", "SaaS"},
				},
			})
		case "/rest/v1/personalprofile":
			if r.URL.Query().Get("id") == "eq.7" {
				json.NewEncoder(w).Encode([]directory.Profile{
					{ID: 7, Name: "Jane Partner", Headline: "GP at Example Ventures"},
				})
				return
			}
			json.NewEncoder(w).Encode([]directory.Profile{})
		case "/find-vc":
			json.NewEncoder(w).Encode(map[string][]api.FoundProfile{
				"profiles": {{Link: "https://news.example.com/accel", Snippet: "Accel raises new fund"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	srv := httptest.NewServer(stubDirectory())
	t.Cleanup(srv.Close)

	dir := directory.NewClient(srv.URL, "anon-key")
	vc := api.NewClient(srv.URL).WithRateLimit(1000, 1000)
	m := New(styles.NewTheme(), dir, vc)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

// load executes the Init fetch and applies the resulting message.
func load(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.loadCmd()()
	loaded, ok := msg.(ListLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	m, _ = m.Update(loaded)
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestList_LoadsAndRenders(t *testing.T) {
	m := load(t, newTestModel(t))

	view := m.View()
	assert.Contains(t, view, "Accel")
	assert.Contains(t, view, "Sequoia Capital")
	assert.Contains(t, view, "2 investors")
}

func TestList_SearchNarrowsRows(t *testing.T) {
	m := load(t, newTestModel(t))

	m, _ = m.Update(keyRune('/'))
	for _, r := range "sequoia" {
		m, _ = m.Update(keyRune(r))
	}

	view := m.View()
	assert.Contains(t, view, "Sequoia Capital")
	assert.NotContains(t, view, "Accel")
	assert.Contains(t, view, "1 investors")
}

func TestList_StageCycleFilters(t *testing.T) {
	m := load(t, newTestModel(t))

	// all -> Seed -> Series A
	m, _ = m.Update(keyRune('s'))
	m, _ = m.Update(keyRune('s'))

	view := m.View()
	assert.Contains(t, view, "stage: Series A")
	assert.Contains(t, view, "Accel")
	assert.NotContains(t, view, "Sequoia Capital")
}

func TestDetail_OpensBySlugAndLoadsMentions(t *testing.T) {
	m := load(t, newTestModel(t))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := m.View()
	assert.Contains(t, view, "Early and growth-stage firm")

	m, cmd := m.Update(keyRune('f'))
	require.NotNil(t, cmd)
	msg := cmd()
	mentions, ok := msg.(MentionsMsg)
	require.True(t, ok)
	require.NoError(t, mentions.Err)

	m, _ = m.Update(mentions)
	assert.Contains(t, m.View(), "Accel raises new fund")
}

func TestDetail_UnknownSlugRendersNotFound(t *testing.T) {
	m := load(t, newTestModel(t))

	m.mode = modeDetail
	m.selectedSlug = "benchmark"

	view := m.View()
	assert.Contains(t, view, "Not found")
	assert.Contains(t, view, "back to list")
}

func TestProfile_LookupByID(t *testing.T) {
	m := load(t, newTestModel(t))

	m, _ = m.Update(keyRune('p'))
	m.idInput.SetValue("7")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd().(ProfileMsg)
	require.NoError(t, msg.Err)
	m, _ = m.Update(msg)

	view := m.View()
	assert.Contains(t, view, "Jane Partner")
	assert.Contains(t, view, "GP at Example Ventures")
}

func TestProfile_MissingIDRendersNotFound(t *testing.T) {
	m := load(t, newTestModel(t))

	m, _ = m.Update(keyRune('p'))
	m.idInput.SetValue("99")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd().(ProfileMsg)
	require.ErrorIs(t, msg.Err, directory.ErrProfileNotFound)
	m, _ = m.Update(msg)

	assert.Contains(t, m.View(), "Not found")
}

func TestList_CacheFallbackShowsWarning(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(ListLoadedMsg{
		List:      []investor.Investor{{Name: "Accel"}},
		FromCache: true,
		Err:       directory.ErrUnavailable,
	})

	view := m.View()
	assert.Contains(t, view, "last synced copy")
	assert.Contains(t, view, "Accel")
}
