// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/vcscope-tui/internal/api"
)

// stubBackend serves all four stage endpoints and records the order in
// which they were hit. Individual endpoints can be forced to fail.
type stubBackend struct {
	mu     sync.Mutex
	calls  []string
	failAt map[string]int // path -> status to return
}

func (s *stubBackend) record(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, path)
}

func (s *stubBackend) callOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.record(r.URL.Path)
		if status, ok := s.failAt[r.URL.Path]; ok {
			w.WriteHeader(status)
			w.Write([]byte(`{"detail":"stub failure"}`))
			return
		}
		switch r.URL.Path {
		case "/analyze", "/analyze-company-info":
			json.NewEncoder(w).Encode(api.Analysis{
				Website: api.WebsiteAnalysis{
					Industry: "Fintech",
					Summary:  "payments for anvils",
					Sectors:  []string{"Fintech", "SaaS"},
				},
				Market: api.MarketAnalysis{Text: "# Market\nBig.", Citations: []string{"c1"}},
			})
		case "/generate-queries":
			json.NewEncoder(w).Encode(map[string][]string{"queries": {"q1", "q2"}})
		case "/search-competitors":
			json.NewEncoder(w).Encode(map[string][]api.Competitor{
				"competitors": {{Name: "Rival", Link: "https://rival.io"}},
			})
		case "/vc-firms":
			json.NewEncoder(w).Encode(map[string][]api.Firm{
				"firms": {{Name: "Sequoia", TicketSize: "$1-5M"}},
			})
		case "/compare":
			json.NewEncoder(w).Encode(map[string]api.Comparison{
				"comparison": {
					Table:   []api.ComparisonRow{{Aspect: "Pricing", Company1: "Low", Company2: "High"}},
					Summary: "cheaper",
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestRunner(t *testing.T, stub *stubBackend) *Runner {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL).WithRateLimit(1000, 1000)
	return NewRunner(client)
}

// drive executes commands and feeds resulting stage messages back into the
// runner until the run settles.
func drive(t *testing.T, r *Runner, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg, ok := cmd().(StageMsg)
		require.True(t, ok, "expected StageMsg")
		cmd = r.Apply(msg)
	}
}

func TestRun_AllStagesSucceed(t *testing.T) {
	stub := &stubBackend{}
	r := newTestRunner(t, stub)

	drive(t, r, r.StartFromURL("https://acme.io", "Seed"))

	assert.Equal(t, KindSucceeded, r.Status().Kind)
	res := r.Results()
	require.NotNil(t, res.Analysis)
	assert.Equal(t, "payments for anvils", res.Analysis.Website.Summary)
	assert.Equal(t, []string{"q1", "q2"}, res.Queries)
	require.Len(t, res.Competitors, 1)
	require.Len(t, res.Firms, 1)
	assert.Equal(t, "Sequoia", res.Firms[0].Name)

	// Strict stage order on the wire.
	assert.Equal(t, []string{"/analyze", "/generate-queries", "/search-competitors", "/vc-firms"}, stub.callOrder())
}

func TestRun_FromCompanyInfo_UsesInfoEndpointAndStage(t *testing.T) {
	stub := &stubBackend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.record(r.URL.Path)
		if r.URL.Path == "/vc-firms" {
			var req struct {
				Stage string `json:"stage"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "Pre-seed", req.Stage)
		}
		stub.handler()(w, r)
	}))
	t.Cleanup(srv.Close)

	// The wrapped handler records twice; only the order matters here.
	r := NewRunner(api.NewClient(srv.URL).WithRateLimit(1000, 1000))
	drive(t, r, r.StartFromCompanyInfo(api.CompanyInfo{
		CompanyName:  "Acme",
		CurrentStage: "Pre-seed",
	}))

	assert.Equal(t, KindSucceeded, r.Status().Kind)
	assert.Contains(t, stub.callOrder(), "/analyze-company-info")
	assert.NotContains(t, stub.callOrder(), "/analyze")
}

// Stage-3 failure: earlier results retained, later slots empty, exactly one
// stage-specific error, nothing left running.
func TestRun_StageThreeFailureShortCircuits(t *testing.T) {
	stub := &stubBackend{failAt: map[string]int{"/search-competitors": http.StatusInternalServerError}}
	r := newTestRunner(t, stub)

	drive(t, r, r.StartFromURL("https://acme.io", "Seed"))

	st := r.Status()
	assert.Equal(t, KindFailed, st.Kind)
	assert.Equal(t, StageCompetitors, st.Stage)
	require.Error(t, st.Err)
	assert.ErrorIs(t, st.Err, api.ErrServer)
	assert.Equal(t, "Competitor search failed", st.Message())

	res := r.Results()
	assert.NotNil(t, res.Analysis)
	assert.NotNil(t, res.Queries)
	assert.Nil(t, res.Competitors)
	assert.Nil(t, res.Firms)

	// Stage 4 was never issued.
	assert.NotContains(t, stub.callOrder(), "/vc-firms")
}

func TestRun_StageOneFailureLeavesEverythingEmpty(t *testing.T) {
	stub := &stubBackend{failAt: map[string]int{"/analyze": http.StatusBadGateway}}
	r := newTestRunner(t, stub)

	drive(t, r, r.StartFromURL("https://acme.io", "Seed"))

	assert.Equal(t, KindFailed, r.Status().Kind)
	assert.Equal(t, StageAnalyze, r.Status().Stage)
	assert.Equal(t, Results{}, r.Results())
	assert.Equal(t, []string{"/analyze"}, stub.callOrder())
}

// A response carrying a superseded run ID must be discarded, not applied.
func TestRun_StaleResponseDiscarded(t *testing.T) {
	stub := &stubBackend{}
	r := newTestRunner(t, stub)

	// Run A: capture its stage-1 message but do not apply it yet.
	cmdA := r.StartFromURL("https://old.io", "Seed")
	msgA := cmdA().(StageMsg)

	// Run B supersedes run A before A's response lands.
	cmdB := r.StartFromURL("https://new.io", "Seed")

	// A's late response is dropped: no state change, no follow-up command.
	assert.Nil(t, r.Apply(msgA))
	assert.Equal(t, KindRunning, r.Status().Kind)
	assert.Equal(t, StageAnalyze, r.Status().Stage)
	assert.Nil(t, r.Results().Analysis)

	// Run B proceeds normally.
	drive(t, r, cmdB)
	assert.Equal(t, KindSucceeded, r.Status().Kind)
	assert.Equal(t, "https://new.io", r.AnalyzedURL())
}

// Starting a new run clears every result slot and the comparison.
func TestRun_StartClearsPreviousResults(t *testing.T) {
	stub := &stubBackend{}
	r := newTestRunner(t, stub)

	drive(t, r, r.StartFromURL("https://acme.io", "Seed"))
	cmp := r.Compare("https://rival.io")
	require.NotNil(t, cmp)
	r.ApplyComparison(cmp().(ComparisonMsg))
	require.NotNil(t, r.Comparison())

	// New run: slots and comparison reset before stage 1 resolves.
	r.StartFromURL("https://next.io", "Series A")
	assert.Equal(t, Results{}, r.Results())
	assert.Nil(t, r.Comparison())
	assert.Equal(t, KindRunning, r.Status().Kind)
}

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "", Idle().Message())
	assert.Equal(t, "Generating search queries", Running(StageQueries).Message())
	assert.Equal(t, "Analysis complete", Succeeded().Message())
	assert.Equal(t, "VC firm matching failed", Failed(StageFirms, assert.AnError).Message())
}
