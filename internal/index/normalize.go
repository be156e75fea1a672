// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package index builds the load-time name lookup tables and autocomplete
// catalogs over the actor graph, and provides the query normalizer they
// share.
package index

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform decomposes to NFKD and strips combining marks, so
// "Penélope" folds to "Penelope" before the ASCII restriction.
var foldTransform = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize canonicalizes a free-text query for equality and substring
// matching: NFKD decomposition, combining-mark removal, ASCII
// restriction, case fold, trim. Idempotent on its own output; internal
// whitespace is preserved and an empty result is permitted.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransform, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < utf8.RuneSelf {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}
