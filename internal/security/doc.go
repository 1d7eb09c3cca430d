// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security protects secrets at rest.
//
// The directory API key is encrypted with AES-256-GCM before it is written
// to the config file, using a master key held in ~/.vcscope/master.key with
// 0600 permissions. Encrypted values carry an ENC: prefix so plaintext
// configs continue to work unchanged.
package security
