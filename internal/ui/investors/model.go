// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investors

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/directory"
	"github.com/jeranaias/vcscope-tui/internal/investor"
	"github.com/jeranaias/vcscope-tui/internal/ui/components"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ListLoadedMsg carries the investor list. FromCache marks a stale local
// copy served because the directory was unreachable.
type ListLoadedMsg struct {
	List      []investor.Investor
	FromCache bool
	Err       error
}

// MentionsMsg carries web mentions for the investor identified by slug.
type MentionsMsg struct {
	Slug     string
	Profiles []api.FoundProfile
	Err      error
}

// ProfileMsg carries a personal profile lookup result.
type ProfileMsg struct {
	ID      int
	Profile *directory.Profile
	Err     error
}

// mode selects which of the directory pages is showing.
type mode int

const (
	modeList mode = iota
	modeDetail
	modeProfile
)

// =============================================================================
// INVESTORS MODEL
// =============================================================================

// Model is the Bubble Tea model for the directory views.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	dir *directory.Client
	vc  *api.Client

	mode mode

	// List page state. The full list stays as fetched (name ascending);
	// filtering derives a view of it on every render.
	investors []investor.Investor
	loaded    bool
	fromCache bool
	loadErr   error

	searchInput textinput.Model
	searching   bool
	stageIdx    int // index into stage options, 0 = All
	sectorIdx   int
	cursor      int

	// Detail page state. selectedSlug is resolved against the list on
	// render, so a slug with no matching record gets the not-found page.
	selectedSlug    string
	mentions        []api.FoundProfile
	mentionsLoading bool
	mentionsErr     error

	// Profile page state.
	idInput        textinput.Model
	profile        *directory.Profile
	profileID      int
	profileLoading bool
	profileErr     error

	spin   components.Spinner
	keyMap KeyMap
	ready  bool
}

// New creates the directory view.
func New(theme *styles.Theme, dir *directory.Client, vc *api.Client) Model {
	search := textinput.New()
	search.Placeholder = "name or description"
	search.CharLimit = 100

	idInput := textinput.New()
	idInput.Placeholder = "profile id"
	idInput.CharLimit = 10

	// The list fetch begins at Init, so the spinner is live from the start.
	// Init's tick command animates it; Start here only flips it active.
	spin := components.NewSpinner()
	spin.SetMessage("Loading investors")
	spin.Start()

	return Model{
		theme:       theme,
		dir:         dir,
		vc:          vc,
		searchInput: search,
		idInput:     idInput,
		spin:        spin,
		keyMap:      DefaultKeyMap(),
	}
}

// AtRoot reports whether the view is on the list page with no active
// search input, meaning esc should leave the directory entirely.
func (m Model) AtRoot() bool {
	return m.mode == modeList && !m.searching
}

// Init fetches the investor list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Start(), m.loadCmd())
}

// filtered returns the list view after the current filter inputs.
func (m Model) filtered() []investor.Investor {
	f := investor.Filter{
		Text:   m.searchInput.Value(),
		Stage:  m.stageOptions()[m.stageIdx],
		Sector: m.sectorOptions()[m.sectorIdx],
	}
	return f.Apply(m.investors)
}

// stageOptions lists the cycling values for the stage filter, "All" first.
func (m Model) stageOptions() []string {
	return append([]string{investor.FilterAll}, investor.Stages(m.investors)...)
}

func (m Model) sectorOptions() []string {
	return append([]string{investor.FilterAll}, investor.Sectors(m.investors)...)
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadCmd fetches the list, falling back to the local cache when the
// directory is unreachable.
func (m Model) loadCmd() tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), directory.DefaultTimeout)
		defer cancel()

		list, err := dir.List(ctx)
		if err == nil {
			return ListLoadedMsg{List: list}
		}
		if cached, ok := dir.CachedList(); ok {
			return ListLoadedMsg{List: cached, FromCache: true, Err: err}
		}
		return ListLoadedMsg{Err: err}
	}
}

// mentionsCmd searches the web for mentions of the investor.
func (m Model) mentionsCmd(name, slug string) tea.Cmd {
	client := m.vc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		profiles, err := client.FindVC(ctx, name)
		return MentionsMsg{Slug: slug, Profiles: profiles, Err: err}
	}
}

// profileCmd fetches a personal profile by id.
func (m Model) profileCmd(id int) tea.Cmd {
	dir := m.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), directory.DefaultTimeout)
		defer cancel()
		p, err := dir.GetProfile(ctx, id)
		return ProfileMsg{ID: id, Profile: p, Err: err}
	}
}
