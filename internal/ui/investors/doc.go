// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package investors is the directory view: the filterable investor list,
// the per-investor detail page (with on-demand web mentions), and the
// personal profile page looked up by id. Navigation between list and detail
// goes through name-derived slugs, the same derivation on both sides.
package investors
