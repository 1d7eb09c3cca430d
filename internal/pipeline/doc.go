// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline orchestrates the four-stage analysis run:
//
//	analyze → generate queries → search competitors → match VC firms
//
// Stages are strictly sequential: a stage's request is never issued before
// its predecessor resolved successfully, and the first failure aborts the
// run while keeping the results of already-completed stages.
//
// Run state is a single tagged value (Idle, Running(stage), Succeeded,
// Failed(stage, err)) instead of per-stage flags, so contradictory
// combinations cannot be represented. Every run carries a fresh identifier;
// stage and comparison responses tagged with a superseded identifier are
// discarded rather than applied, so a slow response from an abandoned run
// can never overwrite a newer run's results.
//
// The competitor comparison sub-flow also lives here: it is independent of
// the stage sequence, keyed per competitor link so several comparisons can
// be in flight at once, but only one comparison result is visible at a time.
package pipeline
