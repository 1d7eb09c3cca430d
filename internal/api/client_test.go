// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a stub backend.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL).WithHTTPClient(srv.Client()).WithRateLimit(1000, 1000)
}

func TestChat_ForwardsTokenByteForByte(t *testing.T) {
	var gotBody ChatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(ChatReply{
			Response: "Tell me more",
			State:    Token("tok1"),
		})
	})

	reply, err := client.Chat(context.Background(), "We are a fintech startup", Token(""))
	require.NoError(t, err)

	assert.Equal(t, "We are a fintech startup", gotBody.Message)
	assert.Equal(t, Token(""), gotBody.State)
	assert.Equal(t, "Tell me more", reply.Response)
	assert.Equal(t, Token("tok1"), reply.State)
	assert.False(t, reply.IsComplete)
	assert.Nil(t, reply.Company)
}

func TestChat_CompletionCarriesCompanyInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatReply{
			Response:   "All set",
			State:      Token("tok9"),
			IsComplete: true,
			Company: &CompanyInfo{
				CompanyName:  "Acme",
				CurrentStage: "Seed",
			},
		})
	})

	reply, err := client.Chat(context.Background(), "done", Token("tok8"))
	require.NoError(t, err)
	assert.True(t, reply.IsComplete)
	require.NotNil(t, reply.Company)
	assert.Equal(t, "Acme", reply.Company.CompanyName)
}

func TestPipelineEndpoints_Contracts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analyze":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://acme.io", req["url"])
			json.NewEncoder(w).Encode(Analysis{
				Website: WebsiteAnalysis{Summary: "sum", Sectors: []string{"Fintech"}},
				Market:  MarketAnalysis{Text: "# Market", Citations: []string{"c1"}},
			})
		case "/generate-queries":
			json.NewEncoder(w).Encode(generateQueriesResponse{Queries: []string{"q1", "q2"}})
		case "/search-competitors":
			var req searchCompetitorsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "sum", req.Summary)
			assert.Equal(t, []string{"q1", "q2"}, req.Queries)
			json.NewEncoder(w).Encode(searchCompetitorsResponse{
				Competitors: []Competitor{{Name: "Rival", Link: "https://rival.io"}},
			})
		case "/vc-firms":
			var req matchFirmsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"Fintech"}, req.Sectors)
			assert.Equal(t, "Seed", req.Stage)
			json.NewEncoder(w).Encode(matchFirmsResponse{Firms: []Firm{{Name: "Sequoia"}}})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()

	analysis, err := client.AnalyzeURL(ctx, "https://acme.io")
	require.NoError(t, err)
	assert.Equal(t, "sum", analysis.Website.Summary)

	queries, err := client.GenerateQueries(ctx, analysis.Website.Summary)
	require.NoError(t, err)
	assert.Len(t, queries, 2)

	competitors, err := client.SearchCompetitors(ctx, analysis.Website.Summary, queries)
	require.NoError(t, err)
	require.Len(t, competitors, 1)
	assert.Equal(t, "Rival", competitors[0].Name)

	firms, err := client.MatchFirms(ctx, analysis.Website.Sectors, "Seed")
	require.NoError(t, err)
	require.Len(t, firms, 1)
	assert.Equal(t, "Sequoia", firms[0].Name)
}

func TestCompareAndFindVC(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/compare":
			var req compareRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://acme.io", req.URL1)
			assert.Equal(t, "https://rival.io", req.URL2)
			json.NewEncoder(w).Encode(compareResponse{Comparison: Comparison{
				Table:   []ComparisonRow{{Aspect: "Pricing", Company1: "Low", Company2: "High"}},
				Summary: "Acme is cheaper",
			}})
		case "/find-vc":
			var req findVCRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Sequoia Capital", req.Name)
			json.NewEncoder(w).Encode(findVCResponse{Profiles: []FoundProfile{
				{Link: "https://example.com", Snippet: "mention"},
			}})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	cmp, err := client.Compare(context.Background(), "https://acme.io", "https://rival.io")
	require.NoError(t, err)
	require.Len(t, cmp.Table, 1)
	assert.Equal(t, "Pricing", cmp.Table[0].Aspect)
	assert.Equal(t, "Acme is cheaper", cmp.Summary)

	profiles, err := client.FindVC(context.Background(), "Sequoia Capital")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "mention", profiles[0].Snippet)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"server failure", http.StatusInternalServerError, `{"detail":"boom"}`, ErrServer},
		{"bad gateway", http.StatusBadGateway, "", ErrServer},
		{"rate limited", http.StatusTooManyRequests, `{"detail":"slow down"}`, ErrRateLimited},
		{"validation error", http.StatusUnprocessableEntity, `{"detail":"bad url"}`, ErrBadRequest},
		{"not found", http.StatusNotFound, "", ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.AnalyzeURL(context.Background(), "https://acme.io")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "/analyze", apiErr.Endpoint)
		})
	}
}

func TestErrorMessage_UsesDetailField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"upstream search failed"}`))
	})

	_, err := client.GenerateQueries(context.Background(), "sum")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream search failed", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "upstream search failed")
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Chat(context.Background(), "hi", Token(""))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTransportFailure_MapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL).WithRateLimit(1000, 1000)
	_, err := client.AnalyzeURL(context.Background(), "https://acme.io")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestContextCancellation_NotWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatReply{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Chat(ctx, "hi", Token(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}
