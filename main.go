// vcscope - a terminal interface for startup fundraising research.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/config"
	"github.com/jeranaias/vcscope-tui/internal/directory"
	"github.com/jeranaias/vcscope-tui/internal/pipeline"
	"github.com/jeranaias/vcscope-tui/internal/security"
	"github.com/jeranaias/vcscope-tui/internal/storage"
	"github.com/jeranaias/vcscope-tui/internal/ui/analysis"
	"github.com/jeranaias/vcscope-tui/internal/ui/chatview"
	"github.com/jeranaias/vcscope-tui/internal/ui/components"
	"github.com/jeranaias/vcscope-tui/internal/ui/investors"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "version" || os.Args[1] == "--version") {
		fmt.Printf("vcscope %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vcscope: could not load configuration: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	client := api.NewClient(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst)

	dir := newDirectoryClient(cfg)

	sessions, err := storage.NewSessionStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vcscope: could not open the session store: %v\n", err)
		os.Exit(1)
	}
	reports, err := storage.NewReportStore()
	if err != nil {
		reports = nil // exporting disabled, everything else still works
	}

	watcher, err := config.NewWatcher()
	if err == nil {
		if err := watcher.Watch(); err != nil {
			watcher = nil
		}
	} else {
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	app := newApp(cfg, client, dir, sessions, reports, watcher)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "vcscope: %v\n", err)
		os.Exit(1)
	}
}

// newDirectoryClient builds the hosted directory client, decrypting the
// stored anon key when the local keystore is initialized. A password
// protected keystore is unlocked before the program takes the terminal.
func newDirectoryClient(cfg *config.Config) *directory.Client {
	key := cfg.Directory.Key
	if box, err := security.NewSecretBox(); err == nil {
		if !box.Initialized() && box.PasswordProtected() && strings.HasPrefix(key, security.EncryptedPrefix) {
			fmt.Print("Master key password: ")
			if raw, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
				if err := box.UnlockWithPassword(strings.TrimSpace(string(raw))); err != nil {
					fmt.Fprintf(os.Stderr, "\nvcscope: could not unlock the keystore: %v\n", err)
				}
			}
			fmt.Println()
		}
		if box.Initialized() {
			if plain, err := box.DecryptString(key); err == nil {
				key = plain
			} else {
				fmt.Fprintf(os.Stderr, "vcscope: could not decrypt the directory key: %v\n", err)
			}
		}
	}

	dir := directory.NewClient(cfg.Directory.BaseURL, key)
	if cfg.Directory.CacheEnabled {
		if confDir, err := config.ConfigDir(); err == nil {
			if cache, err := directory.OpenCache(filepath.Join(confDir, "cache.db")); err == nil {
				dir = dir.WithCache(cache)
			}
		}
	}
	return dir
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// viewState selects the active view.
type viewState int

const (
	stateWelcome viewState = iota
	stateChat
	stateAnalysis
	stateInvestors
)

// appModel is the root Bubble Tea model. It owns the frame (header and
// status bar), routes messages to the active view, and keeps background
// work flowing to the views that own it even when they are not showing.
type appModel struct {
	cfg   *config.Config
	theme *styles.Theme

	header    *components.Header
	statusBar *components.StatusBar
	welcome   components.Welcome

	chat      chatview.Model
	analysis  analysis.Model
	investors investors.Model

	watcher *config.Watcher

	state  viewState
	width  int
	height int

	chatStarted      bool
	investorsStarted bool
}

func newApp(
	cfg *config.Config,
	client *api.Client,
	dir *directory.Client,
	sessions *storage.SessionStore,
	reports *storage.ReportStore,
	watcher *config.Watcher,
) appModel {
	theme := styles.NewTheme()

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(Version)
	welcome.SetBackendURL(cfg.API.BaseURL)

	return appModel{
		cfg:       cfg,
		theme:     theme,
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		welcome:   welcome,
		chat:      chatview.New(theme, client, sessions),
		analysis:  analysis.New(theme, client, reports, cfg.Analysis.DefaultStage, cfg.Analysis.SaveReports),
		investors: investors.New(theme, dir, client),
		watcher:   watcher,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.analysis.Init(), watchConfigCmd(m.watcher))
}

// watchConfigCmd forwards one config watcher event into the program. The
// handler re-arms it after every delivery.
func watchConfigCmd(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-w.Events()
		if !ok {
			return nil
		}
		return msg
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: m.innerHeight()}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(inner)
		cmds = append(cmds, cmd)
		m.analysis, cmd = m.analysis.Update(inner)
		cmds = append(cmds, cmd)
		m.investors, cmd = m.investors.Update(inner)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case config.ReloadedMsg:
		m.cfg = msg.Config
		m.welcome.SetBackendURL(msg.Config.API.BaseURL)
		m.statusBar.SetStatus(components.StatusReady, "configuration reloaded")
		return m, watchConfigCmd(m.watcher)

	case config.ReloadFailedMsg:
		m.statusBar.SetStatus(components.StatusError, "config reload failed: "+msg.Err.Error())
		return m, watchConfigCmd(m.watcher)

	case chatview.HandoffMsg:
		// The intake conversation completed; move straight into analysis.
		m.state = stateAnalysis
		m.syncFrame()
		var cmd tea.Cmd
		m.analysis, cmd = m.analysis.StartCompany(*msg.Company)
		return m, cmd

	// Background work lands in its owning view no matter what is showing.
	case chatview.ReplyMsg, chatview.SavedMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	return m.routeToActive(msg)
}

// routeToActive forwards a message to the view that should see it. Pipeline
// and report messages always reach the analysis view; directory messages
// always reach the investors view; everything else goes to whichever view
// is on screen.
func (m appModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case pipeline.StageMsg, pipeline.ComparisonMsg, analysis.ReportSavedMsg:
		m.analysis, cmd = m.analysis.Update(msg)
		return m, cmd
	case investors.ListLoadedMsg, investors.MentionsMsg, investors.ProfileMsg:
		m.investors, cmd = m.investors.Update(msg)
		return m, cmd
	}

	switch m.state {
	case stateChat:
		m.chat, cmd = m.chat.Update(msg)
	case stateAnalysis:
		m.analysis, cmd = m.analysis.Update(msg)
	case stateInvestors:
		m.investors, cmd = m.investors.Update(msg)
	default:
		// Analysis may still be running behind the welcome screen; keep its
		// spinner ticking.
		m.analysis, cmd = m.analysis.Update(msg)
	}
	return m, cmd
}

// handleKey applies global bindings, then the welcome menu, then the active
// view.
func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.state == stateWelcome {
		switch msg.String() {
		case "c":
			m.state = stateChat
			m.syncFrame()
			if !m.chatStarted {
				m.chatStarted = true
				return m, m.chat.Init()
			}
			return m, nil
		case "a":
			m.state = stateAnalysis
			m.syncFrame()
			return m, nil
		case "i":
			m.state = stateInvestors
			m.syncFrame()
			if !m.investorsStarted {
				m.investorsStarted = true
				return m, m.investors.Init()
			}
			return m, nil
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if msg.Type == tea.KeyEsc && m.atViewRoot() {
		m.state = stateWelcome
		m.syncFrame()
		return m, nil
	}

	return m.routeToActive(tea.Msg(msg))
}

// atViewRoot reports whether esc should leave the active view rather than
// navigate inside it.
func (m appModel) atViewRoot() bool {
	switch m.state {
	case stateInvestors:
		return m.investors.AtRoot()
	default:
		return true
	}
}

// syncFrame updates the header and status bar for the active view.
func (m *appModel) syncFrame() {
	switch m.state {
	case stateChat:
		m.header.SetTitle("vcscope", "fundraising advisor")
		m.statusBar.SetView("Chat")
	case stateAnalysis:
		m.header.SetTitle("vcscope", "company analysis")
		m.statusBar.SetView("Analysis")
	case stateInvestors:
		m.header.SetTitle("vcscope", "investor directory")
		m.statusBar.SetView("Investors")
	default:
		m.header.SetTitle("vcscope", "")
		m.statusBar.SetView("Home")
	}
}

func (m *appModel) handleResize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(width, m.innerHeight())
}

// innerHeight is the height left for the active view after the frame.
func (m appModel) innerHeight() int {
	h := m.height - 3 // header (2) + status bar (1)
	if h < 5 {
		h = 5
	}
	return h
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	switch m.state {
	case stateChat:
		body = m.chat.View()
	case stateAnalysis:
		body = m.analysis.View()
	case stateInvestors:
		body = m.investors.View()
	default:
		body = m.welcome.View()
	}

	return m.header.View() + "\n" + body + "\n" + m.statusBar.View()
}
