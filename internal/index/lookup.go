// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package index

import "strings"

// ResolveLimit caps resolver results for both exact and substring lookups.
const ResolveLimit = 50

// Lookup maps normalized keys to the values registered under them.
// Keys keep insertion order so substring fallback scans are
// deterministic; values under one key keep their registration order.
type Lookup[V any] struct {
	keys   []string
	values map[string][]V
}

// NewLookup creates an empty lookup table.
func NewLookup[V any]() *Lookup[V] {
	return &Lookup[V]{values: make(map[string][]V)}
}

// Add registers a value under a normalized key. Empty keys are dropped.
func (l *Lookup[V]) Add(key string, value V) {
	if key == "" {
		return
	}
	if _, ok := l.values[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.values[key] = append(l.values[key], value)
}

// Resolve returns the values for a query: an exact normalized-key hit
// wins; otherwise keys are scanned in insertion order collecting values
// whose key contains the query as a substring. Results are capped at
// ResolveLimit. An empty query resolves to nothing.
func (l *Lookup[V]) Resolve(query string) []V {
	k := Normalize(query)
	if k == "" {
		return nil
	}

	if vals, ok := l.values[k]; ok {
		if len(vals) > ResolveLimit {
			vals = vals[:ResolveLimit]
		}
		return append([]V(nil), vals...)
	}

	var out []V
	for _, key := range l.keys {
		if !strings.Contains(key, k) {
			continue
		}
		out = append(out, l.values[key]...)
		if len(out) >= ResolveLimit {
			break
		}
	}
	if len(out) > ResolveLimit {
		out = out[:ResolveLimit]
	}
	return out
}
