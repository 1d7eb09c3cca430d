// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory reads the hosted investor directory.
//
// The directory is a third-party hosted data service exposing REST reads
// with field-equality and ordering query parameters. This package issues
// those reads (investor list ordered by name, personal profile by id),
// maps empty results to not-found sentinels, and can mirror the last good
// investor list into a local SQLite cache so the list view has data while
// a refresh is in flight.
package directory
