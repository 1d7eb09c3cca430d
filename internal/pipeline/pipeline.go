// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/vcscope-tui/internal/api"
)

// =============================================================================
// STAGES
// =============================================================================

// Stage identifies one step of the analysis sequence.
type Stage int

const (
	StageAnalyze Stage = iota
	StageQueries
	StageCompetitors
	StageFirms
)

// String returns a short name for the stage.
func (s Stage) String() string {
	switch s {
	case StageAnalyze:
		return "analyze"
	case StageQueries:
		return "queries"
	case StageCompetitors:
		return "competitors"
	case StageFirms:
		return "firms"
	default:
		return "unknown"
	}
}

// Label returns the user-facing description of the stage.
func (s Stage) Label() string {
	switch s {
	case StageAnalyze:
		return "Analyzing company and market"
	case StageQueries:
		return "Generating search queries"
	case StageCompetitors:
		return "Searching for competitors"
	case StageFirms:
		return "Matching VC firms"
	default:
		return "Working"
	}
}

// failureMessage is the single error surfaced when a stage fails.
func (s Stage) failureMessage() string {
	switch s {
	case StageAnalyze:
		return "Company analysis failed"
	case StageQueries:
		return "Query generation failed"
	case StageCompetitors:
		return "Competitor search failed"
	case StageFirms:
		return "VC firm matching failed"
	default:
		return "Analysis failed"
	}
}

// =============================================================================
// STATUS (tagged union)
// =============================================================================

// StatusKind discriminates the Status value.
type StatusKind int

const (
	KindIdle StatusKind = iota
	KindRunning
	KindSucceeded
	KindFailed
)

// Status is the single run-state value. Stage is meaningful for KindRunning
// and KindFailed; Err only for KindFailed.
type Status struct {
	Kind  StatusKind
	Stage Stage
	Err   error
}

// Idle is the status before any run.
func Idle() Status { return Status{Kind: KindIdle} }

// Running marks the given stage in flight.
func Running(stage Stage) Status { return Status{Kind: KindRunning, Stage: stage} }

// Succeeded marks a fully completed run.
func Succeeded() Status { return Status{Kind: KindSucceeded} }

// Failed marks an aborted run with the stage that failed.
func Failed(stage Stage, err error) Status {
	return Status{Kind: KindFailed, Stage: stage, Err: err}
}

// IsRunning reports whether any stage is in flight.
func (s Status) IsRunning() bool { return s.Kind == KindRunning }

// Message returns the user-facing line for the status, empty when idle.
func (s Status) Message() string {
	switch s.Kind {
	case KindRunning:
		return s.Stage.Label()
	case KindSucceeded:
		return "Analysis complete"
	case KindFailed:
		return s.Stage.failureMessage()
	default:
		return ""
	}
}

// =============================================================================
// RESULTS
// =============================================================================

// Results accumulates stage outputs. Slots fill strictly in stage order; a
// failed run leaves earlier slots populated and later ones empty.
type Results struct {
	Analysis    *api.Analysis
	Queries     []string
	Competitors []api.Competitor
	Firms       []api.Firm
}

// =============================================================================
// MESSAGES
// =============================================================================

// StageMsg reports one settled stage call. Run ties the message to the run
// that issued it; the Runner drops messages from superseded runs.
type StageMsg struct {
	Run   uuid.UUID
	Stage Stage
	Err   error

	Analysis    *api.Analysis
	Queries     []string
	Competitors []api.Competitor
	Firms       []api.Firm
}

// =============================================================================
// RUNNER
// =============================================================================

// source captures how stage 1 runs and where the stage-4 funding stage
// comes from.
type source struct {
	info      *api.CompanyInfo
	url       string
	fundStage string
}

// Runner drives the stage sequence. It is owned by the UI model and only
// touched from the Bubble Tea update loop; the network calls it spawns
// communicate back exclusively through StageMsg values.
type Runner struct {
	client *api.Client

	status  Status
	run     uuid.UUID
	src     source
	results Results

	comparing  map[string]bool
	comparison *api.Comparison
	compareErr error
}

// NewRunner creates a Runner in the idle state.
func NewRunner(client *api.Client) *Runner {
	return &Runner{
		client:    client,
		status:    Idle(),
		comparing: make(map[string]bool),
	}
}

// Status returns the current run status.
func (r *Runner) Status() Status { return r.status }

// Results returns the accumulated stage outputs for the current run.
func (r *Runner) Results() Results { return r.results }

// AnalyzedURL returns the URL of the current run, empty for company-info
// runs.
func (r *Runner) AnalyzedURL() string { return r.src.url }

// StartFromCompanyInfo begins a run from conversation-collected company
// info. The stage-4 funding stage comes from the info itself.
func (r *Runner) StartFromCompanyInfo(info api.CompanyInfo) tea.Cmd {
	return r.start(source{info: &info, fundStage: info.CurrentStage})
}

// StartFromURL begins a run from a website URL with an explicit funding
// stage.
func (r *Runner) StartFromURL(url, fundStage string) tea.Cmd {
	return r.start(source{url: url, fundStage: fundStage})
}

// start resets all result slots and the comparison, issues a fresh run ID,
// and dispatches stage 1. An in-flight run is not cancelled; its late
// responses are discarded by the run-ID check in Apply.
func (r *Runner) start(src source) tea.Cmd {
	r.run = uuid.New()
	r.src = src
	r.results = Results{}
	r.comparison = nil
	r.compareErr = nil
	r.comparing = make(map[string]bool)
	r.status = Running(StageAnalyze)
	return r.stageCmd(StageAnalyze)
}

// Apply folds a settled stage into the run state. It returns the command
// for the next stage, or nil when the run finished, failed, or the message
// belongs to a superseded run.
func (r *Runner) Apply(msg StageMsg) tea.Cmd {
	if msg.Run != r.run {
		return nil // stale response from an abandoned run
	}
	if !r.status.IsRunning() || r.status.Stage != msg.Stage {
		return nil
	}

	if msg.Err != nil {
		r.status = Failed(msg.Stage, msg.Err)
		return nil
	}

	switch msg.Stage {
	case StageAnalyze:
		r.results.Analysis = msg.Analysis
		r.status = Running(StageQueries)
		return r.stageCmd(StageQueries)
	case StageQueries:
		r.results.Queries = msg.Queries
		r.status = Running(StageCompetitors)
		return r.stageCmd(StageCompetitors)
	case StageCompetitors:
		r.results.Competitors = msg.Competitors
		r.status = Running(StageFirms)
		return r.stageCmd(StageFirms)
	case StageFirms:
		r.results.Firms = msg.Firms
		r.status = Succeeded()
		return nil
	}
	return nil
}

// stageCmd builds the network command for a stage, capturing the run ID and
// the inputs the stage needs. Inputs are read here, inside the update loop,
// so the goroutine below touches no Runner state.
func (r *Runner) stageCmd(stage Stage) tea.Cmd {
	run := r.run
	client := r.client

	switch stage {
	case StageAnalyze:
		src := r.src
		return func() tea.Msg {
			var (
				analysis *api.Analysis
				err      error
			)
			if src.info != nil {
				analysis, err = client.AnalyzeCompany(context.Background(), *src.info)
			} else {
				analysis, err = client.AnalyzeURL(context.Background(), src.url)
			}
			return StageMsg{Run: run, Stage: StageAnalyze, Analysis: analysis, Err: err}
		}

	case StageQueries:
		summary := r.results.Analysis.Website.Summary
		return func() tea.Msg {
			queries, err := client.GenerateQueries(context.Background(), summary)
			return StageMsg{Run: run, Stage: StageQueries, Queries: queries, Err: err}
		}

	case StageCompetitors:
		summary := r.results.Analysis.Website.Summary
		queries := r.results.Queries
		return func() tea.Msg {
			competitors, err := client.SearchCompetitors(context.Background(), summary, queries)
			return StageMsg{Run: run, Stage: StageCompetitors, Competitors: competitors, Err: err}
		}

	case StageFirms:
		sectors := r.results.Analysis.Website.Sectors
		fundStage := r.src.fundStage
		return func() tea.Msg {
			firms, err := client.MatchFirms(context.Background(), sectors, fundStage)
			return StageMsg{Run: run, Stage: StageFirms, Firms: firms, Err: err}
		}
	}
	return nil
}
