// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investor

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// =============================================================================
// INVESTOR TYPE
// =============================================================================

// Investor is a single directory record as served by the hosted data service.
// Identity for routing is derived from Name via Slugify, not from a stored key.
type Investor struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	StageFocus     []string `json:"stage_focus"`
	SectorFocus    []string `json:"sector_focus"`
	TicketSize     string   `json:"ticket_size"`
	TotalPortfolio string   `json:"total_portfolio"`
	Email          string   `json:"email"`
	Website        string   `json:"website"`
	ImageURL       string   `json:"image_url"`
	PitchURL       string   `json:"pitch_url"`
}

// Slug returns the routing identifier derived from the investor's name.
func (i Investor) Slug() string {
	return Slugify(i.Name)
}

// HasStage reports whether the investor lists the given funding stage.
func (i Investor) HasStage(stage string) bool {
	return contains(i.StageFocus, stage)
}

// HasSector reports whether the investor lists the given sector.
func (i Investor) HasSector(sector string) bool {
	return contains(i.SectorFocus, sector)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// ORDERING
// =============================================================================

// SortByName orders investors by name ascending, matching the ordering the
// directory service applies on list reads. Collation is locale-aware so that
// names with accents sort the way the hosted service sorts them.
func SortByName(list []Investor) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(list, func(a, b int) bool {
		return c.CompareString(list[a].Name, list[b].Name) < 0
	})
}

// FindBySlug returns the investor whose derived slug matches, or false when
// no record matches. Both sides of the comparison go through Slugify so the
// list and detail views can never disagree.
func FindBySlug(list []Investor, slug string) (Investor, bool) {
	for _, inv := range list {
		if inv.Slug() == slug {
			return inv, true
		}
	}
	return Investor{}, false
}
