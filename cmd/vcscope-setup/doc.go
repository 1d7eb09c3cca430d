// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command vcscope-setup is the interactive first-run wizard. It collects
// the analysis backend URL, the hosted directory settings, and the UI
// preferences, encrypts the directory key with a locally generated master
// key, and writes ~/.vcscope/config.toml.
package main
