// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package investor holds the investor directory domain model together with
// the pure view logic that operates on it: list filtering, name ordering,
// and slug derivation for routing.
//
// Everything in this package is synchronous and deterministic. Filtering is
// a pure function of the list and the three filter inputs; slug derivation
// must produce identical output wherever it is applied, because slugs built
// on the list view are matched again on the detail view.
package investor
