// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package investor

import "strings"

// Slugify derives the URL-safe routing identifier for a display name:
// lowercase, whitespace runs collapsed to a single hyphen, and every
// remaining character outside [a-z0-9-] stripped.
//
// The same derivation runs when building a link and when matching one, so
// any change here is a routing contract change.
func Slugify(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	inSpace := false
	for _, r := range lower {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
			inSpace = false
		default:
			// Stripped. Ends the current whitespace run, so "a & b"
			// becomes "a--b": each run of whitespace maps to one hyphen.
			inSpace = false
		}
	}
	return b.String()
}
