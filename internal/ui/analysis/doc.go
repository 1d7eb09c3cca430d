// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis is the pipeline view: a URL/stage form, the four-stage
// progress checklist, and the rendered results (company summary, market
// study, competitors with on-demand comparison, and matched VC firms).
package analysis
