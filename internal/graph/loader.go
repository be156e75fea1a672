// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package graph

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/cinelinks/cinelinks/internal/logging"
)

// artifact is the on-disk shape of the graph export produced by the
// offline build pipeline.
type artifact struct {
	Nodes []Actor `json:"nodes"`
	Edges []Edge  `json:"edges"`
}

// Load reads the graph and actor-movie index artifacts and assembles
// the Store. A missing or unreadable file is an error; the caller
// decides whether to run in not-ready mode.
func Load(graphPath, indexPath string) (*Store, error) {
	var art artifact
	if err := readJSONFile(graphPath, &art); err != nil {
		return nil, fmt.Errorf("graph artifact: %w", err)
	}

	var index Index
	if err := readJSONFile(indexPath, &index); err != nil {
		return nil, fmt.Errorf("actor-movie index: %w", err)
	}
	if index.Movies == nil {
		index.Movies = map[int]MovieInfo{}
	}
	if index.ActorMovies == nil {
		index.ActorMovies = map[int][]Credit{}
	}

	store, err := NewStore(art.Nodes, art.Edges, &index)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("graph", graphPath).
		Int("actors", store.ActorCount()).
		Int("edges", store.EdgeCount()).
		Int("movies", store.MovieCount()).
		Msg("Loaded actor graph")

	return store, nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
