// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the remote analysis backend.
//
// The backend is a black box: it owns conversation handling, website and
// market analysis, competitor search, and VC-firm matching. This package
// only speaks its JSON request/response contracts. Every call takes a
// context, maps non-2xx statuses to sentinel errors, and never retries.
// Failed calls surface to the caller, which decides whether the user
// re-initiates the action.
package api
