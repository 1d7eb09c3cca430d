// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investor

import (
	"strings"

	"golang.org/x/text/cases"
)

// =============================================================================
// FILTER
// =============================================================================

// FilterAll is the neutral value for the stage and sector filters. An empty
// string behaves the same way.
const FilterAll = "all"

// Filter holds the three list-view filter inputs. The zero value matches
// every investor.
type Filter struct {
	// Text is matched case-insensitively as a substring of the investor's
	// name or description.
	Text string

	// Stage must be a member of the investor's stage focus, unless set to
	// FilterAll or empty.
	Stage string

	// Sector must be a member of the investor's sector focus, unless set to
	// FilterAll or empty.
	Sector string
}

// foldCaser folds Unicode case for the substring match. cases.Fold is
// stateless after construction, so a package-level caser is safe to share.
var foldCaser = cases.Fold()

// Apply returns the investors matching every active filter input. It is a
// pure function: the input slice is never modified, and identical inputs
// always produce the identical output list.
func (f Filter) Apply(list []Investor) []Investor {
	out := make([]Investor, 0, len(list))
	for _, inv := range list {
		if f.Matches(inv) {
			out = append(out, inv)
		}
	}
	return out
}

// Matches reports whether a single investor passes all three filter inputs.
func (f Filter) Matches(inv Investor) bool {
	return f.matchesText(inv) && f.matchesStage(inv) && f.matchesSector(inv)
}

func (f Filter) matchesText(inv Investor) bool {
	query := strings.TrimSpace(f.Text)
	if query == "" {
		return true
	}
	folded := foldCaser.String(query)
	return strings.Contains(foldCaser.String(inv.Name), folded) ||
		strings.Contains(foldCaser.String(inv.Description), folded)
}

func (f Filter) matchesStage(inv Investor) bool {
	if isNeutral(f.Stage) {
		return true
	}
	return inv.HasStage(f.Stage)
}

func (f Filter) matchesSector(inv Investor) bool {
	if isNeutral(f.Sector) {
		return true
	}
	return inv.HasSector(f.Sector)
}

// isNeutral reports whether a stage/sector filter value matches everything.
func isNeutral(v string) bool {
	return v == "" || strings.EqualFold(v, FilterAll)
}

// =============================================================================
// FILTER OPTIONS
// =============================================================================

// Stages returns the distinct funding stages present in the list, in first
// appearance order. Used to populate the stage filter choices.
func Stages(list []Investor) []string {
	return distinct(list, func(i Investor) []string { return i.StageFocus })
}

// Sectors returns the distinct sectors present in the list, in first
// appearance order.
func Sectors(list []Investor) []string {
	return distinct(list, func(i Investor) []string { return i.SectorFocus })
}

func distinct(list []Investor, field func(Investor) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, inv := range list {
		for _, v := range field(inv) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
