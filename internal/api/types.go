// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// CONVERSATION TOKEN
// =============================================================================

// Token is the opaque conversation state issued by the chat backend. It is
// forwarded byte-for-byte on every turn and never inspected or synthesized
// client-side. The zero value means "no session yet".
type Token string

// IsZero reports whether no conversation state has been issued.
func (t Token) IsZero() bool { return t == "" }

// =============================================================================
// CHAT CONTRACT
// =============================================================================

// ChatRequest is the body of a chat turn. An empty Message with a zero
// Token opens a new conversation.
type ChatRequest struct {
	Message string `json:"message"`
	State   Token  `json:"conversation_state"`
}

// ChatReply is the consumed portion of a chat turn response.
type ChatReply struct {
	Response   string       `json:"response"`
	State      Token        `json:"conversation_state"`
	IsComplete bool         `json:"is_complete"`
	Company    *CompanyInfo `json:"company_info"`
}

// CompanyInfo is the structured company profile the backend accumulates over
// the conversation. The client displays selected fields and forwards the
// whole object into the analysis pipeline; it never derives data from it.
type CompanyInfo struct {
	CompanyName        string `json:"company_name"`
	Description        string `json:"description"`
	TargetMarket       string `json:"target_market"`
	ProblemAndSolution string `json:"problem_and_solution"`
	BusinessModel      string `json:"business_model"`
	CurrentStage       string `json:"current_stage"`
}

// =============================================================================
// ANALYSIS CONTRACT
// =============================================================================

// WebsiteAnalysis describes the analyzed company itself.
type WebsiteAnalysis struct {
	Industry string   `json:"industry"`
	Solution string   `json:"solution"`
	Summary  string   `json:"summary"`
	Sectors  []string `json:"sectors"`
}

// MarketAnalysis is the market study for the analyzed company. Text is
// Markdown as served by the backend.
type MarketAnalysis struct {
	Text      string   `json:"market_analysis"`
	Citations []string `json:"citations"`
}

// Analysis is the combined result of the first pipeline stage.
type Analysis struct {
	Website WebsiteAnalysis `json:"website_analysis"`
	Market  MarketAnalysis  `json:"market_analysis"`
}

// Competitor is a single competitor search hit.
type Competitor struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Firm is a matched VC firm.
type Firm struct {
	Name        string   `json:"name"`
	TicketSize  string   `json:"ticket_size"`
	FundCorpus  string   `json:"current_fund_corpus"`
	SectorFocus []string `json:"sector_focus"`
	StageFocus  []string `json:"stage_focus"`
	LogoURL     string   `json:"logo_url"`
}

// =============================================================================
// COMPARISON CONTRACT
// =============================================================================

// ComparisonRow is one aspect-by-aspect row of the comparison table.
type ComparisonRow struct {
	Aspect   string `json:"aspect"`
	Company1 string `json:"company1"`
	Company2 string `json:"company2"`
}

// Comparison is a pairwise comparison between the analyzed company and a
// chosen competitor.
type Comparison struct {
	Table   []ComparisonRow `json:"comparison_table"`
	Summary string          `json:"summary"`
}

// =============================================================================
// VC MENTIONS CONTRACT
// =============================================================================

// FoundProfile is a single web mention of a VC located by name.
type FoundProfile struct {
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// =============================================================================
// WIRE ENVELOPES
// =============================================================================

type analyzeURLRequest struct {
	URL string `json:"url"`
}

type generateQueriesRequest struct {
	Summary string `json:"summary,omitempty"`
	URL     string `json:"url,omitempty"`
}

type generateQueriesResponse struct {
	Queries []string `json:"queries"`
}

type searchCompetitorsRequest struct {
	Summary string   `json:"summary"`
	Queries []string `json:"queries"`
}

type searchCompetitorsResponse struct {
	Competitors []Competitor `json:"competitors"`
}

type matchFirmsRequest struct {
	Sectors []string `json:"sectors"`
	Stage   string   `json:"stage"`
}

type matchFirmsResponse struct {
	Firms []Firm `json:"firms"`
}

type compareRequest struct {
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`
}

type compareResponse struct {
	Comparison Comparison `json:"comparison"`
}

type findVCRequest struct {
	Name string `json:"name"`
}

type findVCResponse struct {
	Profiles []FoundProfile `json:"profiles"`
}
