// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "context"

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one conversation turn. Opening a session is an empty message
// with a zero token; every later turn forwards the token from the previous
// reply unchanged.
func (c *Client) Chat(ctx context.Context, message string, state Token) (*ChatReply, error) {
	var reply ChatReply
	err := c.postJSON(ctx, "/chat", ChatRequest{Message: message, State: state}, &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// =============================================================================
// PIPELINE STAGES
// =============================================================================

// AnalyzeCompany runs the company/market analysis from structured company
// info collected by the conversation.
func (c *Client) AnalyzeCompany(ctx context.Context, info CompanyInfo) (*Analysis, error) {
	var out Analysis
	if err := c.postJSON(ctx, "/analyze-company-info", info, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeURL runs the company/market analysis from a website URL.
func (c *Client) AnalyzeURL(ctx context.Context, url string) (*Analysis, error) {
	var out Analysis
	if err := c.postJSON(ctx, "/analyze", analyzeURLRequest{URL: url}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateQueries produces search queries from an analysis summary.
func (c *Client) GenerateQueries(ctx context.Context, summary string) ([]string, error) {
	var out generateQueriesResponse
	if err := c.postJSON(ctx, "/generate-queries", generateQueriesRequest{Summary: summary}, &out); err != nil {
		return nil, err
	}
	return out.Queries, nil
}

// GenerateQueriesFromURL produces search queries directly from a URL.
func (c *Client) GenerateQueriesFromURL(ctx context.Context, url string) ([]string, error) {
	var out generateQueriesResponse
	if err := c.postJSON(ctx, "/generate-queries", generateQueriesRequest{URL: url}, &out); err != nil {
		return nil, err
	}
	return out.Queries, nil
}

// SearchCompetitors finds competitors for the summarized company using the
// generated queries.
func (c *Client) SearchCompetitors(ctx context.Context, summary string, queries []string) ([]Competitor, error) {
	var out searchCompetitorsResponse
	if err := c.postJSON(ctx, "/search-competitors", searchCompetitorsRequest{Summary: summary, Queries: queries}, &out); err != nil {
		return nil, err
	}
	return out.Competitors, nil
}

// MatchFirms returns VC firms matching the company's sectors and funding
// stage.
func (c *Client) MatchFirms(ctx context.Context, sectors []string, stage string) ([]Firm, error) {
	var out matchFirmsResponse
	if err := c.postJSON(ctx, "/vc-firms", matchFirmsRequest{Sectors: sectors, Stage: stage}, &out); err != nil {
		return nil, err
	}
	return out.Firms, nil
}

// =============================================================================
// COMPARISON
// =============================================================================

// Compare fetches a pairwise comparison between two company URLs.
func (c *Client) Compare(ctx context.Context, url1, url2 string) (*Comparison, error) {
	var out compareResponse
	if err := c.postJSON(ctx, "/compare", compareRequest{URL1: url1, URL2: url2}, &out); err != nil {
		return nil, err
	}
	return &out.Comparison, nil
}

// =============================================================================
// VC MENTIONS
// =============================================================================

// FindVC searches the web for mentions of a VC by name.
func (c *Client) FindVC(ctx context.Context, name string) ([]FoundProfile, error) {
	var out findVCResponse
	if err := c.postJSON(ctx, "/find-vc", findVCRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return out.Profiles, nil
}
