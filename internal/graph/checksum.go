// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/goccy/go-json"
)

// Checksum returns the hex SHA-256 fingerprint of the graph structure.
// Fleet-diff tooling compares this value across environments, so the
// encoding is canonical: sorted "<id>|<type>" node strings and sorted
// "<u>-><v>" edge strings with u <= v, compact JSON.
func (s *Store) Checksum() string {
	nodes := make([]string, 0, len(s.actors))
	for id := range s.actors {
		nodes = append(nodes, id+"|actor")
	}
	sort.Strings(nodes)

	edges := make([]string, 0, len(s.edgeMovies))
	for key := range s.edgeMovies {
		u, v := splitPairKey(key)
		edges = append(edges, u+"->"+v)
	}
	sort.Strings(edges)

	blob, err := json.Marshal(struct {
		Nodes []string `json:"nodes"`
		Edges []string `json:"edges"`
	}{Nodes: nodes, Edges: edges})
	if err != nil {
		// Marshaling strings cannot fail; keep the signature simple.
		return ""
	}

	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// splitPairKey reverses pairKey. Keys always contain one separator
// because actor ids never contain '|'.
func splitPairKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
